package repository

import (
	"context"

	"github.com/google/uuid"

	"catalog-backend/internal/domains/video/model"
)

type Repository interface {
	// List trả về một page và tổng số rows match filter, đọc trong cùng snapshot
	List(ctx context.Context, q model.ListQuery) ([]*model.Video, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error)
	// FindByIDs bỏ qua id không tồn tại, thứ tự không đảm bảo
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Video, error)
	Create(ctx context.Context, v *model.Video) error
	// Update ghi title/description/thumbnail với optimistic version check
	Update(ctx context.Context, v *model.Video) error
	TogglePublish(ctx context.Context, id uuid.UUID) (*model.Video, error)
	SetThumbnailVariants(ctx context.Context, id uuid.UUID, thumbnailKey string, variants map[string]string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
