// Package pool provides a lazily connected, shared database handle.
package pool

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

// ErrClosed is returned by DB after Close.
var ErrClosed = errors.New("database pool is closed")

// Opener establishes a database connection.
type Opener func(ctx context.Context) (*gorm.DB, error)

// Pool hands out one shared *gorm.DB.
// The connection is opened on the first call to DB. A failed attempt is not
// remembered, the next call tries again.
type Pool struct {
	mu     sync.Mutex
	open   Opener
	db     *gorm.DB
	closed bool
}

// New creates a pool. No connection is made until DB is called.
func New(open Opener) *Pool {
	return &Pool{open: open}
}

// DB returns the shared handle, connecting if needed.
// Concurrent callers during the first connect wait for the same attempt.
func (p *Pool) DB(ctx context.Context) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	if p.db != nil {
		return p.db, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := p.open(ctx)
	if err != nil {
		return nil, err
	}

	p.db = db

	return db, nil
}

// Close closes the underlying connection if one was opened.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true

	if p.db == nil {
		return nil
	}

	sqlDB, err := p.db.DB()
	if err != nil {
		return err //nolint:wrapcheck
	}

	p.db = nil

	return sqlDB.Close() //nolint:wrapcheck
}
