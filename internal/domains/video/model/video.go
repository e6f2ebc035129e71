package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Video - catalog entry
// VideoFile là immutable sau khi publish, Thumbnail có thể thay
type Video struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	VideoFile         string            `json:"video_file"`
	Thumbnail         string            `json:"thumbnail"`
	ThumbnailVariants map[string]string `json:"thumbnail_variants,omitempty"`
	Duration          int               `json:"duration"`
	IsPublished       bool              `json:"is_published"`
	Owner             uuid.UUID         `json:"owner_id"`
	OwnerProfile      *OwnerProjection  `json:"owner,omitempty"`
	Version           int               `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Object keys trong media store, chỉ dùng nội bộ cho cleanup
	VideoFileKey string `json:"-"`
	ThumbnailKey string `json:"-"`
}

// OwnerProjection là phần public của user sở hữu video
type OwnerProjection struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Avatar   string    `json:"avatar"`
}

func (v *Video) OwnerID() uuid.UUID {
	return v.Owner
}

func (v *Video) ResourceKind() string {
	return "video"
}

// MediaKeys trả về các object key còn tham chiếu bởi video
func (v *Video) MediaKeys() []string {
	keys := make([]string, 0, 2)
	for _, k := range []string{v.VideoFileKey, v.ThumbnailKey} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// CacheKey cho video detail
func CacheKey(id uuid.UUID) string {
	return "video:" + id.String()
}

// ListCachePrefix gom tất cả list pages đã cache, invalidate bằng pattern
const ListCachePrefix = "videos:list:"

// ListCacheKey phải phân biệt mọi field của ListQuery
func ListCacheKey(q ListQuery) string {
	owner := "-"
	if q.OwnerID != nil {
		owner = q.OwnerID.String()
	}
	return fmt.Sprintf("%s%s:%t:%d:%d:%s:%s", ListCachePrefix, q.SortBy, q.Desc, q.Page, q.Limit, owner, q.Query)
}

// VariantPrefix là folder chứa thumbnail variants của một video
func VariantPrefix(id uuid.UUID) string {
	return "thumbnails/variants/" + id.String() + "/"
}
