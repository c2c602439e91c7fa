package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     *bool     `json:"redis,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every configured dependency answered its last ping.
func (h HealthStatus) Healthy() bool {
	return h.Mongo && (h.Redis == nil || *h.Redis)
}

// HealthMonitor pings MongoDB and, when configured, Redis on an interval
// and keeps the latest snapshot.
type HealthMonitor struct {
	mongo *mongo.Client
	redis *redis.Client

	mu      sync.RWMutex
	current HealthStatus
}

// NewHealthMonitor builds a monitor. cache may be nil.
func NewHealthMonitor(mongoClient *mongo.Client, cache *redis.Client) *HealthMonitor {
	return &HealthMonitor{mongo: mongoClient, redis: cache}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check pings every dependency once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now().UTC()}
	if m.mongo != nil {
		status.Mongo = m.mongo.Ping(ctx, nil) == nil
	}
	if m.redis != nil {
		ok := m.redis.Ping(ctx).Err() == nil
		status.Redis = &ok
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start runs Check every interval until ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	logger := GetLogger()
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if status := m.Check(ctx); !status.Healthy() {
					logger.Warn("Dependency health check failed", zap.Bool("mongo", status.Mongo), zap.Any("redis", status.Redis))
				}
			}
		}
	}()
}
