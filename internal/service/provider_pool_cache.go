package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"longa/internal/domain/entity"
	"longa/internal/domain/repository"
	"longa/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	ProviderPoolKey = "providers:pool"

	redisOpTimeout = 2 * time.Second
)

// ProviderPool returns the active provider candidates in insertion order.
type ProviderPool interface {
	Candidates(ctx context.Context) ([]entity.ProviderCandidate, error)
	Invalidate(ctx context.Context) error
}

// ProviderPoolCache keeps the active provider pool in Redis.
//
// Reads fall back to PostgreSQL on a miss or any Redis error; the store is
// always authoritative. Reloads are serialized so a burst of misses hits the
// database once. A background loop refreshes the key before it expires.
type ProviderPoolCache struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	profileRepo repository.ProviderProfileRepository
	ttl         time.Duration

	loadMu sync.Mutex

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewProviderPoolCache(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, profileRepo repository.ProviderProfileRepository, ttl time.Duration) *ProviderPoolCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProviderPoolCache{
		db:          db,
		redisClient: redisClient,
		log:         log,
		profileRepo: profileRepo,
		ttl:         ttl,
		stopChan:    make(chan struct{}),
	}
}

// Start warms the cache and keeps it fresh until Stop.
func (c *ProviderPoolCache) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	if _, err := c.Refresh(ctx); err != nil {
		c.log.Warnf("Failed to warm provider pool cache: %+v", err)
	}

	c.wg.Add(1)
	go c.refreshLoop()
}

// Stop is safe to call multiple times.
func (c *ProviderPoolCache) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopChan)
		c.wg.Wait()
		c.log.Info("ProviderPoolCache stopped")
	}
}

func (c *ProviderPoolCache) Candidates(ctx context.Context) ([]entity.ProviderCandidate, error) {
	if pool, ok := c.get(ctx); ok {
		return pool, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// Another caller may have reloaded while we waited.
	if pool, ok := c.get(ctx); ok {
		return pool, nil
	}
	return c.load(ctx)
}

// Refresh reloads the pool from the store and rewrites the cache.
func (c *ProviderPoolCache) Refresh(ctx context.Context) ([]entity.ProviderCandidate, error) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	return c.load(ctx)
}

func (c *ProviderPoolCache) Invalidate(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := c.redisClient.Del(opCtx, ProviderPoolKey).Err(); err != nil {
		c.log.Warnf("Failed to invalidate provider pool cache: %+v", err)
		metrics.RecordSecondaryWriteFailure("cache")
		return fmt.Errorf("invalidate provider pool: %w", err)
	}
	return nil
}

func (c *ProviderPoolCache) get(ctx context.Context) ([]entity.ProviderCandidate, bool) {
	if c.redisClient == nil {
		return nil, false
	}
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := c.redisClient.Get(opCtx, ProviderPoolKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read provider pool cache: %+v", err)
		}
		return nil, false
	}

	var pool []entity.ProviderCandidate
	if err := json.Unmarshal(raw, &pool); err != nil {
		c.log.Warnf("Discarding unreadable provider pool cache: %+v", err)
		return nil, false
	}
	return pool, true
}

// load must be called with loadMu held.
func (c *ProviderPoolCache) load(ctx context.Context) ([]entity.ProviderCandidate, error) {
	pool, err := c.profileRepo.FindActiveCandidates(ctx, c.db)
	if err != nil {
		return nil, fmt.Errorf("load provider pool: %w", err)
	}
	if pool == nil {
		pool = []entity.ProviderCandidate{}
	}

	if c.redisClient != nil {
		raw, err := json.Marshal(pool)
		if err != nil {
			return pool, nil
		}
		opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		if err := c.redisClient.Set(opCtx, ProviderPoolKey, raw, c.ttl).Err(); err != nil {
			c.log.Warnf("Failed to write provider pool cache: %+v", err)
			metrics.RecordSecondaryWriteFailure("cache")
		}
	}

	c.log.Debugf("Loaded provider pool: %d candidates", len(pool))
	return pool, nil
}

func (c *ProviderPoolCache) refreshLoop() {
	defer c.wg.Done()

	interval := c.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			c.log.Debug("Provider pool refresh loop stopping")
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := c.Refresh(ctx); err != nil {
				c.log.Warnf("Failed to refresh provider pool cache: %+v", err)
			}
			cancel()
		}
	}
}
