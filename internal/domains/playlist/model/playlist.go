package model

import (
	"time"

	"github.com/google/uuid"

	videoModel "catalog-backend/internal/domains/video/model"
)

// Playlist - Members là thứ tự video id lưu trong playlist_videos.
// Videos chỉ chứa member còn tồn tại, được populate khi đọc.
type Playlist struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Owner       uuid.UUID           `json:"owner_id"`
	Members     Members             `json:"-"`
	Videos      []*videoModel.Video `json:"videos"`
	Version     int                 `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (p *Playlist) OwnerID() uuid.UUID {
	return p.Owner
}

func (p *Playlist) ResourceKind() string {
	return "playlist"
}
