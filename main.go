package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/address-corrector/app/config"
	"github.com/address-corrector/app/controllers"
	"github.com/address-corrector/app/services"
	"github.com/address-corrector/internal/cascade"
	"github.com/address-corrector/internal/corrector"
	"github.com/address-corrector/internal/decomposer"
	"github.com/address-corrector/internal/geocode"
	"github.com/address-corrector/internal/stats"
	"github.com/address-corrector/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Init logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Address Corrector Service")

	// 3. Load engine config (corrector, cascade, stats, geocoder tuning)
	if err := config.Load(viper.GetString("engine.config_path")); err != nil {
		logger.Warn("Cannot read engine config, using defaults", zap.Error(err))
	}

	// 4. Connect MongoDB
	mongoDB := initMongoDB(logger)
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}()

	// 5. Cache services (Redis L1 + MongoDB L2)
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379")
	redisCache, err := services.NewRedisCacheService(redisURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
	}
	redisCache.SetTTL(time.Duration(viper.GetInt("cache.redis_ttl_hours")) * time.Hour)

	l1Size := getEnvInt("L1_CACHE_SIZE", 10000)
	mongoCache, err := services.NewMongoCacheService(mongoDB, l1Size, logger)
	if err != nil {
		logger.Fatal("Failed to initialize MongoDB cache", zap.Error(err))
	}

	cacheService := services.NewHybridCacheService(redisCache, mongoCache, logger)

	// 6. Warm up the L1 front from MongoDB
	if err := cacheService.WarmUpFromMongoDB(context.Background(), l1Size/2); err != nil {
		logger.Warn("Failed to warm up cache", zap.Error(err))
	}

	// 7. Stats tracker
	tracker := stats.NewTracker(config.C.Stats.HistoryLimit, config.C.Stats.RecentWindow)

	// 8. LLM corrector
	llmCorrector := corrector.NewCorrector(corrector.Config{
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		Model:       config.C.Corrector.Model,
		Timeout:     time.Duration(config.C.Corrector.TimeoutMs) * time.Millisecond,
		MaxAttempts: config.C.Corrector.MaxAttempts,
		RetryDelay:  time.Duration(config.C.Corrector.RetryDelayMs) * time.Millisecond,
		JWWeight:    config.C.Corrector.JWWeight,
		LevWeight:   config.C.Corrector.LevWeight,
	}, tracker, logger)

	// 9. Geocoder: remote Nominatim or local Meilisearch gazetteer
	nominatim := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:   config.C.Geocoder.BaseURL,
		UserAgent: config.C.Geocoder.UserAgent,
		Timeout:   time.Duration(config.C.Geocoder.TimeoutMs) * time.Millisecond,
	}, logger)

	var geocoder cascade.Geocoder = nominatim
	var gazetteer *geocode.Gazetteer
	if config.C.Geocoder.Provider == "gazetteer" {
		gazetteer, err = geocode.NewGazetteer(geocode.GazetteerConfig{
			Host:   viper.GetString("meilisearch.url"),
			APIKey: viper.GetString("meilisearch.master_key"),
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize gazetteer", zap.Error(err))
		}
		geocoder = gazetteer
	}

	// 10. Core components and service
	dec := decomposer.NewDecomposer()
	orchestrator := cascade.NewOrchestrator(config.C.Cascade.MinPrimaryResults, logger)

	addressService := services.NewAddressService(
		llmCorrector, dec, orchestrator, geocoder, nominatim, cacheService, tracker, logger)

	// 11. Controllers
	addressController := controllers.NewAddressController(addressService, logger)
	adminController := controllers.NewAdminController(gazetteer, logger)

	// 12. Gin router and routes
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController)

	// 13. Start server
	port := getEnv("APP_PORT", "8080")
	logger.Info("Address Corrector Service starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// loadConfig loads configuration from file and env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("engine.config_path", "./config/engine.yaml")
	viper.SetDefault("meilisearch.url", "http://meili:7700")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/address_corrector")
	viper.SetDefault("cache.l1_size", 10000)
	viper.SetDefault("cache.redis_ttl_hours", 24)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger sets up the structured logger
func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", "development")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}

// initMongoDB connects to MongoDB
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := getEnv("MONGO_URL", "mongodb://localhost:27017/address_corrector")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	dbName := "address_corrector"
	clientOpts := options.Client().ApplyURI(mongoURL)
	if clientOpts.Auth != nil && clientOpts.Auth.AuthSource != "" {
		dbName = clientOpts.Auth.AuthSource
	}

	db := client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("database", dbName))

	return db
}

// getEnv returns an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
