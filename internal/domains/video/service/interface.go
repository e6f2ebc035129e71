package service

import (
	"context"

	"github.com/google/uuid"

	"catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/shared"
)

// ServiceInterface - catalog operations trên video.
// Các id dạng string là raw path param, service tự parse.
type ServiceInterface interface {
	List(ctx context.Context, req model.ListVideosRequest) (*model.ListVideosResponse, error)
	Publish(ctx context.Context, principal uuid.UUID, req model.PublishVideoRequest) (*model.Video, error)
	GetByID(ctx context.Context, rawID string) (*model.Video, error)
	Update(ctx context.Context, principal uuid.UUID, rawID string, req model.UpdateVideoRequest) (*model.Video, error)
	Delete(ctx context.Context, principal uuid.UUID, rawID string) error
	TogglePublish(ctx context.Context, principal uuid.UUID, rawID string) (*model.Video, error)
}

// MediaServiceInterface - xử lý media từ worker
type MediaServiceInterface interface {
	ProcessThumbnail(ctx context.Context, payload shared.ProcessThumbnailPayload) error
	DeleteMedia(ctx context.Context, payload shared.DeleteVideoMediaPayload) error
}
