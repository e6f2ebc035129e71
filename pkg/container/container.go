package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/config"
	infraCache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/internal/infrastructure/queue"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/jwt"
	"catalog-backend/pkg/logger"

	playlistHandler "catalog-backend/internal/domains/playlist/handler"
	playlistRepo "catalog-backend/internal/domains/playlist/repository"
	playlistService "catalog-backend/internal/domains/playlist/service"
	videoHandler "catalog-backend/internal/domains/video/handler"
	videoRepo "catalog-backend/internal/domains/video/repository"
	videoService "catalog-backend/internal/domains/video/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của api và worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *infraCache.RedisClient
	Cache          cache.Cache
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	AsynqClient    *asynq.Client
	JWTManager     *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	VideoRepo    videoRepo.Repository
	PlaylistRepo playlistRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	VideoService    videoService.ServiceInterface
	MediaService    videoService.MediaServiceInterface
	PlaylistService playlistService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	VideoHandler    *videoHandler.Handler
	PlaylistHandler *playlistHandler.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer build dependency graph theo thứ tự:
// Config -> Infrastructure -> Repositories -> Services -> Handlers
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container...")

	c := &Container{}

	// STEP 1: CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// STEP 2: INFRASTRUCTURE
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 3-5
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// ----------------------------------------
	// POSTGRES
	// ----------------------------------------
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ----------------------------------------
	// REDIS
	// ----------------------------------------
	// Cache không critical: Redis lỗi thì service vẫn đọc thẳng DB
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical)")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	// ----------------------------------------
	// OBJECT STORAGE
	// ----------------------------------------
	var prober storage.DurationProber
	if cfg.MinIO.FFProbePath != "" {
		prober = storage.NewFFProbe(cfg.MinIO.FFProbePath)
	} else {
		logger.Warn("FFPROBE_PATH not set, video duration falls back to default", map[string]interface{}{
			"fallback_seconds": storage.FallbackDurationSeconds,
		})
	}

	objectStore, err := storage.NewMinIOStorage(cfg.MinIO, prober)
	if err != nil {
		return fmt.Errorf("failed to init MinIO storage: %w", err)
	}
	c.Storage = objectStore
	c.ImageProcessor = storage.NewImageProcessor(cfg.Worker.ThumbnailMaxSize)

	// ----------------------------------------
	// QUEUE + AUTH
	// ----------------------------------------
	c.AsynqClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.VideoRepo = videoRepo.NewPostgresRepository(pool)
	c.PlaylistRepo = playlistRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.VideoService = videoService.NewVideoService(
		c.VideoRepo,
		c.Storage,
		c.Cache,
		c.AsynqClient,
		c.Config.Catalog,
	)
	c.MediaService = videoService.NewMediaService(
		c.VideoRepo,
		c.Storage,
		c.ImageProcessor,
		c.Cache,
	)
	// Video repository đóng vai VideoLookup để populate playlist members
	c.PlaylistService = playlistService.NewPlaylistService(
		c.PlaylistRepo,
		c.VideoRepo,
		c.Config.Catalog,
	)
}

func (c *Container) initHandlers() {
	c.VideoHandler = videoHandler.NewHandler(c.VideoService, c.Config.App.MaxUploadMB)
	c.PlaylistHandler = playlistHandler.NewHandler(c.PlaylistService, c.Config.Catalog.NoopMembershipStatus)
}

// Cleanup đóng connections, gọi khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
