// Package cache stores short-lived values such as OAuth state.
//
// Two drivers exist:
//   - memory, in-process, for a single instance and tests
//   - redis, shared between instances
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketlink/marketlink/internal/config"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Client is a key/value cache with expiry.
type Client interface {
	// Get returns the value of key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A ttl of 0 never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Take returns the value of key and removes it in one step.
	// Of concurrent callers at most one gets the value, the others get ErrNotFound.
	Take(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Reset removes every key of this client.
	Reset(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// New creates the client selected by cfg.Driver.
func New(cfg config.Cache) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownCacheDriver, cfg.Driver)
	}
}
