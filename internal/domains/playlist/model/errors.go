package model

import "errors"

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrNoUpdateFields   = errors.New("at least one of name or description is required")
	ErrVersionConflict  = errors.New("version conflict: playlist was modified by another request")
)
