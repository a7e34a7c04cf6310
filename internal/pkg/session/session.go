// Package session tracks revoked access tokens by their jti until the token
// would have expired anyway.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/rueidis"
)

type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = until
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryRevoker) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// ScheduleSweep runs Sweep on a ticker until stop is closed.
func (m *MemoryRevoker) ScheduleSweep(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

type RedisRevoker struct {
	client rueidis.Client
	prefix string
}

func NewRedisRevoker(client rueidis.Client) *RedisRevoker {
	return &RedisRevoker{client: client, prefix: "servimarket:revoked:"}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	secs := int64(time.Until(until).Seconds())
	if secs <= 0 {
		return nil
	}
	cmd := r.client.B().Setex().Key(r.prefix + jti).Seconds(secs).Value("1").Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	cmd := r.client.B().Exists().Key(r.prefix + jti).Build()
	n, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func NewRedisClient(addr string) (rueidis.Client, error) {
	return rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
}
