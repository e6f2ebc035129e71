package service

import (
	"context"

	"github.com/google/uuid"

	"catalog-backend/internal/domains/playlist/model"
	videoModel "catalog-backend/internal/domains/video/model"
)

// MembershipResult - Changed=false là no-op (video đã có / không có trong playlist),
// Playlist luôn là state hiện tại.
type MembershipResult struct {
	Playlist *model.Playlist
	Changed  bool
}

// VideoLookup là phần của video repository mà playlist cần để populate members
type VideoLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*videoModel.Video, error)
}

type ServiceInterface interface {
	Create(ctx context.Context, principal uuid.UUID, req model.CreatePlaylistRequest) (*model.Playlist, error)
	ListByUser(ctx context.Context, rawUserID string) ([]*model.Playlist, error)
	GetByID(ctx context.Context, rawID string) (*model.Playlist, error)
	AddVideo(ctx context.Context, principal uuid.UUID, rawPlaylistID, rawVideoID string) (*MembershipResult, error)
	RemoveVideo(ctx context.Context, principal uuid.UUID, rawPlaylistID, rawVideoID string) (*MembershipResult, error)
	Update(ctx context.Context, principal uuid.UUID, rawID string, req model.UpdatePlaylistRequest) (*model.Playlist, error)
	Delete(ctx context.Context, principal uuid.UUID, rawID string) error
	PruneOrphans(ctx context.Context, batchSize int) (int64, error)
}
