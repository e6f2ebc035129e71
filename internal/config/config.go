package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	JWT     JWTConfig
	MinIO   MinIOConfig
	Catalog CatalogConfig
	Worker  WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigin  string
	// MaxUploadMB giới hạn multipart body cho publish/update video
	MaxUploadMB int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // catalog
	UseSSL    bool   // false for local
	// PublicBaseURL overrides the locator host (CDN / reverse proxy)
	PublicBaseURL string
	// FFProbePath bật duration probing cho video upload; rỗng = dùng fallback
	FFProbePath string
}

// CatalogConfig gom các policy flag của catalog core
type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	// EnforcePlaylistUpdateOwner: playlist update hiện không check owner
	// (khác với video update). Giữ nguyên hành vi cũ cho tới khi product chốt.
	EnforcePlaylistUpdateOwner bool
	// NoopMembershipStatus là HTTP status cho add/remove không thay đổi gì
	// (200 mặc định, 400 để tương thích client cũ)
	NoopMembershipStatus int
	VideoCacheTTLMinutes int
}

type WorkerConfig struct {
	Concurrency      int
	OrphanPruneCron  string
	ThumbnailMaxSize int // pixels, cạnh dài nhất của variant lớn nhất
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Catalog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
			MaxUploadMB: getEnvInt("APP_MAX_UPLOAD_MB", 512),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 15), // 15 minutes
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "catalog"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
			FFProbePath:   getEnv("FFPROBE_PATH", ""),
		},
		Catalog: CatalogConfig{
			DefaultPageSize:            getEnvInt("CATALOG_DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:                getEnvInt("CATALOG_MAX_PAGE_SIZE", 100),
			EnforcePlaylistUpdateOwner: getEnvBool("CATALOG_ENFORCE_PLAYLIST_UPDATE_OWNER", false),
			NoopMembershipStatus:       getEnvInt("CATALOG_NOOP_MEMBERSHIP_STATUS", http.StatusOK),
			VideoCacheTTLMinutes:       getEnvInt("CATALOG_VIDEO_CACHE_TTL_MINUTES", 15),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvInt("WORKER_CONCURRENCY", 10),
			OrphanPruneCron:  getEnv("WORKER_ORPHAN_PRUNE_CRON", "30 3 * * *"),
			ThumbnailMaxSize: getEnvInt("WORKER_THUMBNAIL_MAX_SIZE", 1280),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Catalog.DefaultPageSize < 1 || c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("invalid page size config: default=%d max=%d",
			c.Catalog.DefaultPageSize, c.Catalog.MaxPageSize)
	}
	switch c.Catalog.NoopMembershipStatus {
	case http.StatusOK, http.StatusBadRequest:
	default:
		return fmt.Errorf("CATALOG_NOOP_MEMBERSHIP_STATUS must be 200 or 400, got %d", c.Catalog.NoopMembershipStatus)
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.MinIO.AccessKey == "minioadmin" {
			fmt.Println("WARNING: MinIO is using default credentials")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
