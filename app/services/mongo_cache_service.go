package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/address-corrector/app/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoCacheService persistent correction cache backed by MongoDB
// with an in-memory LRU front
type MongoCacheService struct {
	db         *mongo.Database
	collection *mongo.Collection
	l1Cache    *lru.Cache[string, *models.CorrectionResult]
	logger     *zap.Logger

	// Metrics
	totalHits atomic.Int64
	totalMiss atomic.Int64
	l1Hits    atomic.Int64
	l1Miss    atomic.Int64
	mongoHits atomic.Int64
	mongoMiss atomic.Int64
}

// NewMongoCacheService creates a MongoDB-backed correction cache
func NewMongoCacheService(db *mongo.Database, l1Size int, logger *zap.Logger) (*MongoCacheService, error) {
	l1Cache, err := lru.New[string, *models.CorrectionResult](l1Size)
	if err != nil {
		return nil, fmt.Errorf("cannot create LRU cache: %w", err)
	}

	collection := db.Collection("correction_cache")

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "raw_fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "created_at", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "last_accessed", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("cannot create indexes for correction_cache", zap.Error(err))
	}

	return &MongoCacheService{
		db:         db,
		collection: collection,
		l1Cache:    l1Cache,
		logger:     logger,
	}, nil
}

// Get fetches a correction (L1 then MongoDB)
func (mcs *MongoCacheService) Get(ctx context.Context, key string) (*models.CorrectionResult, bool, error) {
	if result, found := mcs.l1Cache.Get(key); found {
		mcs.l1Hits.Add(1)
		mcs.totalHits.Add(1)
		mcs.logger.Debug("L1 cache hit", zap.String("key", key))
		return result, true, nil
	}
	mcs.l1Miss.Add(1)

	var entry models.CorrectionCacheEntry
	filter := bson.M{"raw_fingerprint": key}

	err := mcs.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			mcs.mongoMiss.Add(1)
			mcs.totalMiss.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("mongo cache query failed: %w", err)
	}

	mcs.mongoHits.Add(1)
	mcs.totalHits.Add(1)

	// Touch access stats off the request path
	go mcs.updateAccessStats(entry.ID)

	result := entry.Result
	mcs.l1Cache.Add(key, &result)

	mcs.logger.Debug("mongo cache hit", zap.String("key", key))
	return &result, true, nil
}

// Set stores a correction (L1 + MongoDB)
func (mcs *MongoCacheService) Set(ctx context.Context, key string, result *models.CorrectionResult) error {
	mcs.l1Cache.Add(key, result)

	entry := models.CorrectionCacheEntry{
		RawFingerprint:   key,
		CorrectedAddress: result.CorrectedAddress,
		Result:           *result,
		Confidence:       result.Confidence,
		CreatedAt:        time.Now(),
		LastAccessed:     time.Now(),
		AccessCount:      1,
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"raw_fingerprint": key}

	if _, err := mcs.collection.ReplaceOne(ctx, filter, entry, opts); err != nil {
		mcs.logger.Error("cannot store in mongo cache",
			zap.Error(err),
			zap.String("key", key))
		return fmt.Errorf("cannot store in mongo cache: %w", err)
	}

	mcs.logger.Debug("stored in cache",
		zap.String("key", key),
		zap.Float64("confidence", result.Confidence))

	return nil
}

// Delete removes a correction from cache
func (mcs *MongoCacheService) Delete(ctx context.Context, key string) error {
	mcs.l1Cache.Remove(key)

	if _, err := mcs.collection.DeleteOne(ctx, bson.M{"raw_fingerprint": key}); err != nil {
		return fmt.Errorf("cannot delete from mongo cache: %w", err)
	}

	return nil
}

// Clear removes all cached corrections
func (mcs *MongoCacheService) Clear(ctx context.Context) error {
	mcs.l1Cache.Purge()

	if _, err := mcs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("cannot clear mongo cache: %w", err)
	}

	mcs.totalHits.Store(0)
	mcs.totalMiss.Store(0)
	mcs.l1Hits.Store(0)
	mcs.l1Miss.Store(0)
	mcs.mongoHits.Store(0)
	mcs.mongoMiss.Store(0)

	return nil
}

// GetStats reports cache statistics
func (mcs *MongoCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	mongoCount, err := mcs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot count mongo cache documents: %w", err)
	}

	hits := mcs.totalHits.Load()
	misses := mcs.totalMiss.Load()
	total := hits + misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	stats := &CacheStats{
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: mongoCount,
	}

	mcs.logger.Debug("cache stats",
		zap.Float64("hit_rate", hitRate),
		zap.Int64("total_hits", hits),
		zap.Int64("total_miss", misses),
		zap.Int("l1_size", mcs.l1Cache.Len()),
		zap.Int64("mongo_count", mongoCount))

	return stats, nil
}

// Exists checks whether a key is present
func (mcs *MongoCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if mcs.l1Cache.Contains(key) {
		return true, nil
	}

	count, err := mcs.collection.CountDocuments(ctx, bson.M{"raw_fingerprint": key})
	if err != nil {
		return false, fmt.Errorf("mongo exists check failed: %w", err)
	}

	return count > 0, nil
}

// Close releases resources. The Mongo client is owned by the caller.
func (mcs *MongoCacheService) Close() error {
	return nil
}

// updateAccessStats bumps access counters (async)
func (mcs *MongoCacheService) updateAccessStats(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": 1},
	}

	if _, err := mcs.collection.UpdateOne(ctx, filter, update); err != nil {
		mcs.logger.Warn("cannot update access stats", zap.Error(err))
	}
}

// WarmUp preloads the most accessed corrections into L1
func (mcs *MongoCacheService) WarmUp(ctx context.Context, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "access_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mcs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("cache warm up failed: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var entry models.CorrectionCacheEntry
		if err := cursor.Decode(&entry); err != nil {
			mcs.logger.Warn("cannot decode cache entry during warm up", zap.Error(err))
			continue
		}

		result := entry.Result
		mcs.l1Cache.Add(entry.RawFingerprint, &result)
		count++
	}

	mcs.logger.Info("cache warm up done",
		zap.Int("loaded_items", count),
		zap.Int("l1_size", mcs.l1Cache.Len()))

	return nil
}
