package cache

import (
	"context"
	"errors"
	"time"
)

// Storage adapts a Client to fiber.Storage.
type Storage struct {
	client Client
	prefix string
}

// NewStorage returns a fiber.Storage keeping its entries in c under prefix.
func NewStorage(c Client, prefix string) *Storage {
	return &Storage{client: c, prefix: prefix}
}

// Get returns nil without error for a missing key, as fiber.Storage requires.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	b, err := s.client.Get(context.Background(), s.prefix+key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	return b, err
}

// Set stores val. Empty keys and values are ignored.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	return s.client.Set(context.Background(), s.prefix+key, val, exp)
}

// Delete removes key.
func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.client.Delete(context.Background(), s.prefix+key)
}

// Reset removes all entries of the underlying client.
func (s *Storage) Reset() error {
	return s.client.Reset(context.Background())
}

// Close is a no-op, the client is owned by the caller.
func (s *Storage) Close() error {
	return nil
}
