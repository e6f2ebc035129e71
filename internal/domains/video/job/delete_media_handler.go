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

// DeleteMediaHandler xóa objects của video đã xóa / thumbnail đã bị thay
type DeleteMediaHandler struct {
	mediaService service.MediaServiceInterface
}

func NewDeleteMediaHandler(mediaService service.MediaServiceInterface) *DeleteMediaHandler {
	return &DeleteMediaHandler{mediaService: mediaService}
}

func (h *DeleteMediaHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteVideoMediaPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteMedia payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("video_id", payload.VideoID).
		Strs("keys", payload.Keys).
		Msg("Deleting video media")

	if err := h.mediaService.DeleteMedia(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Str("video_id", payload.VideoID).
			Msg("Failed to delete video media")
		return fmt.Errorf("delete media: %w", err)
	}

	log.Info().Str("video_id", payload.VideoID).Msg("Video media deleted")
	return nil
}
