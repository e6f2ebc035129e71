package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ResourceKind phân loại binary được upload
type ResourceKind string

const (
	ResourceVideo ResourceKind = "video"
	ResourceImage ResourceKind = "image"

	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"

	// FallbackDurationSeconds dùng khi không probe được duration
	FallbackDurationSeconds = 60
)

// File là một binary nhận từ client, handler chịu trách nhiệm đóng Reader
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadOptions struct {
	ResourceKind ResourceKind
	Folder       string
}

type UploadResult struct {
	SecureURL string  `json:"secure_url"`
	Key       string  `json:"key"`
	Size      int64   `json:"size"`
	Duration  int     `json:"duration"` // giây, làm tròn, chỉ có nghĩa với video
}

// MediaStore là boundary với object storage
type MediaStore interface {
	Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error)
	Delete(ctx context.Context, keys ...string) error
}

// objectKey: <folder>/<uuid><ext>, ext lấy từ tên file gốc (lowercase)
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
}

// ObjectStore mở rộng MediaStore cho worker: đọc lại object và ghi bytes
type ObjectStore interface {
	MediaStore
	Download(ctx context.Context, key string) ([]byte, error)
	PutBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}
