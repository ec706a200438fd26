package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScanLock allows one in-flight recognition per owner across replicas.
// The TTL bounds a lock left behind by a crashed replica.
type ScanLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScanLock creates a new scan lock
func NewScanLock(client *redis.Client, ttl time.Duration) *ScanLock {
	return &ScanLock{
		client: client,
		ttl:    ttl,
	}
}

func (l *ScanLock) key(owner string) string {
	return fmt.Sprintf("grader:%s:inflight", owner)
}

// Acquire returns false when another scan for owner is already in flight
func (l *ScanLock) Acquire(ctx context.Context, owner string) (bool, error) {
	return l.client.SetNX(ctx, l.key(owner), time.Now().Unix(), l.ttl).Result()
}

// Release frees the owner's lock
func (l *ScanLock) Release(ctx context.Context, owner string) error {
	return l.client.Del(ctx, l.key(owner)).Err()
}
