package shared

// Task types (asynq)
const (
	TypeProcessThumbnail = "video:process_thumbnail"
	TypeDeleteVideoMedia = "video:delete_media"
	TypePruneOrphans     = "playlist:prune_orphans"
)

// Queue names
const (
	QueueHigh        = "high"
	QueueDefault     = "default"
	QueueMedia       = "media"
	QueueMaintenance = "low"
)

// ProcessThumbnailPayload: render variants cho thumbnail của video
type ProcessThumbnailPayload struct {
	VideoID      string `json:"video_id"`
	ThumbnailKey string `json:"thumbnail_key"`
}

// DeleteVideoMediaPayload: xóa objects của video đã bị xóa
type DeleteVideoMediaPayload struct {
	VideoID string   `json:"video_id"`
	Keys    []string `json:"keys"`
}

// PruneOrphansPayload: xóa membership rows trỏ tới video không còn tồn tại
type PruneOrphansPayload struct {
	BatchSize int `json:"batch_size"`
}
