package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalog-backend/pkg/container"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// startServices chạy startup checks rồi mở health endpoint
func startServices(c *container.Container, settings workerSettings) error {
	log.Info().Msg("Catalog worker starting...")

	checks := []namedCheck{
		{"Redis Connection", c.Redis},
		{"Database Connection", c.DB},
		{"Object Storage", c.Storage},
	}
	if err := checkAll(context.Background(), checks); err != nil {
		return err
	}

	go startHealthCheckServer(settings.HealthAddr, checks)
	return nil
}

type namedCheck struct {
	name    string
	checker healthChecker
}

func checkAll(ctx context.Context, checks []namedCheck) error {
	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.checker.HealthCheck(checkCtx)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Startup check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("OK")
	}
	return nil
}

func healthRouter(checks []namedCheck) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "catalog-worker"})
	})
	// readiness: dependencies phải sẵn sàng
	r.GET("/ready", func(ctx *gin.Context) {
		if err := checkAll(ctx.Request.Context(), checks); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	return r
}

func startHealthCheckServer(addr string, checks []namedCheck) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           healthRouter(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
