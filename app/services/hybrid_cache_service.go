package services

import (
	"context"
	"fmt"
	"time"

	"github.com/address-corrector/app/models"
	"go.uber.org/zap"
)

// HybridCacheService correction cache combining Redis (L1) and MongoDB (L2)
type HybridCacheService struct {
	redisCache *RedisCacheService // L1, fast
	mongoCache *MongoCacheService // L2, persistent
	logger     *zap.Logger
}

// NewHybridCacheService creates the two-tier cache
func NewHybridCacheService(redisCache *RedisCacheService, mongoCache *MongoCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		redisCache: redisCache,
		mongoCache: mongoCache,
		logger:     logger,
	}
}

// Get fetches a correction, Redis first then MongoDB
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.CorrectionResult, bool, error) {
	result, found, err := hcs.redisCache.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("redis cache error, falling back to mongo", zap.Error(err))
	} else if found {
		hcs.logger.Debug("L1 cache hit (redis)", zap.String("key", key))
		return result, true, nil
	}

	result, found, err = hcs.mongoCache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		hcs.logger.Debug("cache miss (redis and mongo)", zap.String("key", key))
		return nil, false, nil
	}

	// Backfill Redis off the request path
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := hcs.redisCache.Set(bgCtx, key, result); err != nil {
			hcs.logger.Warn("mongo->redis sync failed", zap.Error(err), zap.String("key", key))
		} else {
			hcs.logger.Debug("synced mongo->redis", zap.String("key", key))
		}
	}()

	hcs.logger.Debug("L2 cache hit (mongo)", zap.String("key", key))
	return result, true, nil
}

// Set stores a correction in both tiers in parallel
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.CorrectionResult) error {
	errCh := make(chan error, 2)

	go func() {
		err := hcs.redisCache.Set(ctx, key, result)
		if err != nil {
			hcs.logger.Warn("redis set failed", zap.Error(err))
		}
		errCh <- err
	}()

	go func() {
		err := hcs.mongoCache.Set(ctx, key, result)
		if err != nil {
			hcs.logger.Warn("mongo set failed", zap.Error(err))
		}
		errCh <- err
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cache errors: %v", errs)
	}

	hcs.logger.Debug("saved to hybrid cache", zap.String("key", key))
	return nil
}

// Delete removes a key from both tiers
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- hcs.redisCache.Delete(ctx, key)
	}()

	go func() {
		errCh <- hcs.mongoCache.Delete(ctx, key)
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("delete errors: %v", errs)
	}

	return nil
}

// Clear empties both tiers
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- hcs.redisCache.Clear(ctx)
	}()

	go func() {
		errCh <- hcs.mongoCache.Clear(ctx)
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("clear errors: %v", errs)
	}

	hcs.logger.Info("cleared hybrid cache (redis + mongo)")
	return nil
}

// GetStats combines statistics from both tiers
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	redisStats, redisErr := hcs.redisCache.GetStats(ctx)
	mongoStats, mongoErr := hcs.mongoCache.GetStats(ctx)

	if redisErr != nil && mongoErr != nil {
		return nil, fmt.Errorf("both redis and mongo failed: %v, %v", redisErr, mongoErr)
	}

	combinedStats := &CacheStats{}

	if redisErr == nil && mongoErr == nil {
		totalHits := redisStats.TotalHits + mongoStats.TotalHits
		totalMiss := redisStats.TotalMiss + mongoStats.TotalMiss
		total := totalHits + totalMiss

		if total > 0 {
			combinedStats.HitRate = float64(totalHits) / float64(total)
		}
		combinedStats.TotalHits = totalHits
		combinedStats.TotalMiss = totalMiss
		combinedStats.TotalItems = redisStats.TotalItems + mongoStats.TotalItems
	} else if redisErr == nil {
		*combinedStats = *redisStats
	} else {
		*combinedStats = *mongoStats
	}

	return combinedStats, nil
}

// Exists checks both tiers, Redis first
func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := hcs.redisCache.Exists(ctx, key)
	if err != nil {
		hcs.logger.Warn("redis exists check failed, falling back to mongo", zap.Error(err))
	} else if exists {
		return true, nil
	}

	return hcs.mongoCache.Exists(ctx, key)
}

// Close closes both tiers
func (hcs *HybridCacheService) Close() error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- hcs.redisCache.Close()
	}()

	go func() {
		errCh <- hcs.mongoCache.Close()
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}

	return nil
}

// WarmUpFromMongoDB preloads the Mongo tier's hot entries into its LRU front
func (hcs *HybridCacheService) WarmUpFromMongoDB(ctx context.Context, limit int) error {
	return hcs.mongoCache.WarmUp(ctx, limit)
}
