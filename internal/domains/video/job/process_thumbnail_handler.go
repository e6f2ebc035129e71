package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/domains/video/service"
	"catalog-backend/internal/shared"
)

// ProcessThumbnailHandler render thumbnail variants của video
type ProcessThumbnailHandler struct {
	mediaService service.MediaServiceInterface
}

func NewProcessThumbnailHandler(mediaService service.MediaServiceInterface) *ProcessThumbnailHandler {
	return &ProcessThumbnailHandler{mediaService: mediaService}
}

func (h *ProcessThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessThumbnail payload")
		// payload hỏng thì retry cũng không sửa được
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("video_id", payload.VideoID).
		Str("thumbnail_key", payload.ThumbnailKey).
		Msg("Processing thumbnail variants")

	if err := h.mediaService.ProcessThumbnail(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Str("video_id", payload.VideoID).
			Msg("Failed to process thumbnail")
		return fmt.Errorf("process thumbnail: %w", err)
	}

	return nil
}
