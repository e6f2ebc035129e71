package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catalog-backend/internal/shared/middleware"
	"catalog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(c.Config.App.CORSOrigin),
	)

	router.GET("/health", healthCheckHandler(c.Config.App.Version, map[string]healthChecker{
		"database": c.DB,
		"redis":    c.Redis,
	}))

	auth := middleware.AuthMiddleware(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		setupVideoRoutes(v1, c, auth)
		setupPlaylistRoutes(v1, c, auth)
	}

	return router
}

// ========================================
// VIDEO ROUTES
// ========================================
func setupVideoRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	videos := v1.Group("/videos")
	{
		videos.GET("", c.VideoHandler.ListVideos)
		videos.GET("/:videoId", c.VideoHandler.GetVideo)

		videos.POST("", auth, c.VideoHandler.PublishVideo)
		videos.PATCH("/:videoId", auth, c.VideoHandler.UpdateVideo)
		videos.DELETE("/:videoId", auth, c.VideoHandler.DeleteVideo)
		videos.PATCH("/toggle/publish/:videoId", auth, c.VideoHandler.TogglePublishStatus)
	}
}

// ========================================
// PLAYLIST ROUTES
// ========================================
// Tất cả playlist routes yêu cầu đăng nhập, kể cả GET
func setupPlaylistRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	playlists := v1.Group("/playlists")
	playlists.Use(auth)
	{
		playlists.POST("", c.PlaylistHandler.CreatePlaylist)
		playlists.GET("/user/:userId", c.PlaylistHandler.GetUserPlaylists)
		playlists.GET("/:playlistId", c.PlaylistHandler.GetPlaylist)
		playlists.PATCH("/:playlistId", c.PlaylistHandler.UpdatePlaylist)
		playlists.DELETE("/:playlistId", c.PlaylistHandler.DeletePlaylist)
		playlists.PATCH("/add/:videoId/:playlistId", c.PlaylistHandler.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", c.PlaylistHandler.RemoveVideo)
	}
}

// ========================================
// HEALTH CHECK
// ========================================

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// healthCheckHandler trả 503 nếu có dependency lỗi
func healthCheckHandler(version string, checks map[string]healthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		services := gin.H{}
		for name, checker := range checks {
			if err := checker.HealthCheck(ctx); err != nil {
				services[name] = "error: " + err.Error()
				status = "degraded"
				continue
			}
			services[name] = "ok"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
			"services":  services,
		})
	}
}
