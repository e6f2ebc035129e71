package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/domains/playlist/service"
	"catalog-backend/internal/shared"
)

const DefaultPruneBatchSize = 500

// PruneOrphansHandler dọn membership rows trỏ tới video đã bị xóa.
// Chạy theo lịch từ scheduler, payload có thể rỗng.
type PruneOrphansHandler struct {
	playlistService service.ServiceInterface
}

func NewPruneOrphansHandler(playlistService service.ServiceInterface) *PruneOrphansHandler {
	return &PruneOrphansHandler{playlistService: playlistService}
}

func (h *PruneOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PruneOrphansPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal PruneOrphans payload")
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	if payload.BatchSize <= 0 {
		payload.BatchSize = DefaultPruneBatchSize
	}

	removed, err := h.playlistService.PruneOrphans(ctx, payload.BatchSize)
	if err != nil {
		log.Error().
			Err(err).
			Int64("removed_before_failure", removed).
			Msg("Failed to prune orphan memberships")
		return fmt.Errorf("prune orphans: %w", err)
	}

	return nil
}
