package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/domains/video/service"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared/middleware"
	"catalog-backend/internal/shared/optional"
	"catalog-backend/internal/shared/response"
)

const (
	formVideoFile = "videoFile"
	formThumbnail = "thumbnail"
)

type Handler struct {
	service        service.ServiceInterface
	maxUploadBytes int64
}

func NewHandler(service service.ServiceInterface, maxUploadMB int) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// ListVideos - GET /api/v1/videos
// Query params: page, limit, query, sortBy, sortType, userId
func (h *Handler) ListVideos(c *gin.Context) {
	req := model.ListVideosRequest{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Query:    c.Query("query"),
		UserID:   c.Query("userId"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
	}

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Videos fetched successfully", result)
}

// PublishVideo - POST /api/v1/videos (multipart: title, description, videoFile, thumbnail)
func (h *Handler) PublishVideo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if _, err := c.MultipartForm(); err != nil {
		response.BadRequest(c, uploadErrorMessage(err))
		return
	}

	req := model.PublishVideoRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	videoFile, closeVideo, err := formFile(c, formVideoFile)
	if err != nil {
		response.BadRequest(c, "Cannot read video file")
		return
	}
	defer closeVideo()
	req.VideoFile = videoFile

	thumbnail, closeThumb, err := formFile(c, formThumbnail)
	if err != nil {
		response.BadRequest(c, "Cannot read thumbnail")
		return
	}
	defer closeThumb()
	req.Thumbnail = thumbnail

	video, err := h.service.Publish(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Video published successfully", video)
}

// GetVideo - GET /api/v1/videos/:videoId
func (h *Handler) GetVideo(c *gin.Context) {
	video, err := h.service.GetByID(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Video fetched successfully", video)
}

// UpdateVideo - PATCH /api/v1/videos/:videoId
// Nhận multipart (title, description, thumbnail) hoặc JSON (title, description)
func (h *Handler) UpdateVideo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	var req model.UpdateVideoRequest

	if isMultipart(c) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
		form, err := c.MultipartForm()
		if err != nil {
			response.BadRequest(c, uploadErrorMessage(err))
			return
		}
		req.Title = optional.FromForm(form.Value, "title")
		req.Description = optional.FromForm(form.Value, "description")

		thumbnail, closeThumb, err := formFile(c, formThumbnail)
		if err != nil {
			response.BadRequest(c, "Cannot read thumbnail")
			return
		}
		defer closeThumb()
		req.Thumbnail = thumbnail
	} else if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	video, err := h.service.Update(c.Request.Context(), userID, c.Param("videoId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Video updated successfully", video)
}

// DeleteVideo - DELETE /api/v1/videos/:videoId
func (h *Handler) DeleteVideo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("videoId")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Video deleted successfully", gin.H{})
}

// TogglePublishStatus - PATCH /api/v1/videos/toggle/publish/:videoId
func (h *Handler) TogglePublishStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	video, err := h.service.TogglePublish(c.Request.Context(), userID, c.Param("videoId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Publish status updated successfully", video)
}

// ========================= HELPERS =====================

// queryInt: param không hợp lệ -> 0, service sẽ áp default
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFile mở file trong multipart form. File không có -> (nil, noop, nil),
// service quyết định file đó có bắt buộc hay không.
func formFile(c *gin.Context, field string) (*storage.File, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return openFile(header)
}

func openFile(header *multipart.FileHeader) (*storage.File, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &storage.File{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}

func uploadErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "Upload exceeds maximum allowed size"
	}
	return "Invalid multipart form"
}
