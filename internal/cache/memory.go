package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = time.Minute

type memoryClient struct {
	mu     sync.Mutex // serializes Take
	c      *gocache.Cache
	prefix string
}

// NewMemory creates an in-process Client backed by go-cache.
func NewMemory(prefix string) Client {
	return &memoryClient{
		c:      gocache.New(gocache.NoExpiration, memoryCleanupInterval),
		prefix: prefix,
	}
}

func (m *memoryClient) key(k string) string {
	return m.prefix + k
}

func (m *memoryClient) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return nil, ErrNotFound
	}

	b, _ := v.([]byte)

	return b, nil
}

func (m *memoryClient) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	// callers may reuse value
	m.c.Set(m.key(key), append([]byte(nil), value...), ttl)

	return nil
}

func (m *memoryClient) Take(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)

	v, ok := m.c.Get(k)
	if !ok {
		return nil, ErrNotFound
	}

	m.c.Delete(k)

	b, _ := v.([]byte)

	return b, nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))

	return nil
}

func (m *memoryClient) Reset(_ context.Context) error {
	if m.prefix == "" {
		m.c.Flush()

		return nil
	}

	for k := range m.c.Items() {
		if strings.HasPrefix(k, m.prefix) {
			m.c.Delete(k)
		}
	}

	return nil
}

func (m *memoryClient) Close() error {
	return nil
}
