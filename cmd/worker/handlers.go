package main

import (
	"github.com/hibiken/asynq"

	playlistJob "catalog-backend/internal/domains/playlist/job"
	videoJob "catalog-backend/internal/domains/video/job"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Media
	processThumbnail *videoJob.ProcessThumbnailHandler
	deleteMedia      *videoJob.DeleteMediaHandler

	// Maintenance
	pruneOrphans *playlistJob.PruneOrphansHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processThumbnail: videoJob.NewProcessThumbnailHandler(c.MediaService),
		deleteMedia:      videoJob.NewDeleteMediaHandler(c.MediaService),
		pruneOrphans:     playlistJob.NewPruneOrphansHandler(c.PlaylistService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessThumbnail, h.processThumbnail.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteVideoMedia, h.deleteMedia.ProcessTask)
	mux.HandleFunc(shared.TypePruneOrphans, h.pruneOrphans.ProcessTask)
}
