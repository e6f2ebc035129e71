package model

import (
	"errors"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared/optional"
)

const (
	SortCreatedAt = "createdAt"
	SortTitle     = "title"
	SortDuration  = "duration"
	SortUpdatedAt = "updatedAt"

	SortAsc  = "asc"
	SortDesc = "desc"

	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// ===================================
// LIST
// ===================================

// ListVideosRequest - raw query params, GET /videos
type ListVideosRequest struct {
	Page     int
	Limit    int
	Query    string
	UserID   string
	SortBy   string
	SortType string
}

// ListQuery là request đã normalize, repository chỉ nhận struct này
type ListQuery struct {
	Page    int
	Limit   int
	Query   string
	OwnerID *uuid.UUID
	SortBy  string
	Desc    bool
}

// Offset bão hòa ở math.MaxInt: page quá lớn vẫn là trang rỗng, không overflow âm
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Normalize áp default / cap cho pagination và whitelist cho sort.
// userId không phải UUID hợp lệ thì bỏ qua filter.
func (r ListVideosRequest) Normalize(defaultLimit, maxLimit int) ListQuery {
	q := ListQuery{
		Page:   r.Page,
		Limit:  r.Limit,
		Query:  strings.TrimSpace(r.Query),
		SortBy: SortCreatedAt,
		Desc:   !strings.EqualFold(r.SortType, SortAsc),
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	switch r.SortBy {
	case SortTitle, SortDuration, SortUpdatedAt:
		q.SortBy = r.SortBy
	}

	if id, err := uuid.Parse(strings.TrimSpace(r.UserID)); err == nil && id != uuid.Nil {
		q.OwnerID = &id
	}

	return q
}

type ListVideosResponse struct {
	Total  int64    `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
	Videos []*Video `json:"videos"`
}

// ===================================
// PUBLISH
// ===================================

type PublishVideoRequest struct {
	Title       string        `json:"title" form:"title"`
	Description string        `json:"description" form:"description"`
	VideoFile   *storage.File `json:"-" form:"-"`
	Thumbnail   *storage.File `json:"-" form:"-"`
}

func (r PublishVideoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, notBlank, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.Required, notBlank, validation.Length(1, MaxDescriptionLength)),
		validation.Field(&r.VideoFile, validation.NotNil.Error(ErrVideoFileMissing.Error())),
		validation.Field(&r.Thumbnail, validation.NotNil.Error(ErrThumbnailMissing.Error())),
	)
}

// ===================================
// UPDATE
// ===================================

// UpdateVideoRequest - unset field giữ nguyên, set("") được apply
type UpdateVideoRequest struct {
	Title       optional.Value[string] `json:"title"`
	Description optional.Value[string] `json:"description"`
	Thumbnail   *storage.File          `json:"-"`
}

func (r UpdateVideoRequest) Validate() error {
	title := r.Title.OrElse("")
	description := r.Description.OrElse("")
	return validation.Errors{
		"title":       validation.Validate(title, validation.Length(0, MaxTitleLength)),
		"description": validation.Validate(description, validation.Length(0, MaxDescriptionLength)),
	}.Filter()
}

// Apply ghi các field được set vào video
func (r UpdateVideoRequest) Apply(v *Video) {
	r.Title.Apply(&v.Title)
	r.Description.Apply(&v.Description)
}

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})
