package model

import "errors"

var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrVersionConflict  = errors.New("version conflict: video was modified by another request")
	ErrInvalidVideoID   = errors.New("invalid video id")
	ErrVideoFileMissing = errors.New("video file is required")
	ErrThumbnailMissing = errors.New("thumbnail is required")
)
