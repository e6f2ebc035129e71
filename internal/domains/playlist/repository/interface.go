package repository

import (
	"context"

	"github.com/google/uuid"

	"catalog-backend/internal/domains/playlist/model"
)

// MutateFunc nhận playlist đã lock (members đã load) và trả về members mới
type MutateFunc func(p *model.Playlist) (model.Members, error)

type Repository interface {
	Create(ctx context.Context, p *model.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error)
	// ListByOwner - mới nhất trước
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error)
	Update(ctx context.Context, p *model.Playlist) error
	// Delete xóa playlist và membership rows của nó
	Delete(ctx context.Context, id uuid.UUID) error
	// MutateMembers chạy fn trong transaction giữ row lock của playlist,
	// persist phần diff và bump version. changed=false khi fn không đổi gì.
	MutateMembers(ctx context.Context, id uuid.UUID, fn MutateFunc) (p *model.Playlist, changed bool, err error)
	// PruneOrphans xóa membership rows trỏ tới video không còn tồn tại
	PruneOrphans(ctx context.Context, batchSize int) (int64, error)
}
