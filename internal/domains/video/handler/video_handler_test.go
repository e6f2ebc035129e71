package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/shared/apperror"
	"catalog-backend/internal/shared/middleware"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, req model.ListVideosRequest) (*model.ListVideosResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*model.ListVideosResponse)
	return res, args.Error(1)
}

func (m *MockService) Publish(ctx context.Context, principal uuid.UUID, req model.PublishVideoRequest) (*model.Video, error) {
	args := m.Called(ctx, principal, req)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, rawID string) (*model.Video, error) {
	args := m.Called(ctx, rawID)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, principal uuid.UUID, rawID string, req model.UpdateVideoRequest) (*model.Video, error) {
	args := m.Called(ctx, principal, rawID, req)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, principal uuid.UUID, rawID string) error {
	return m.Called(ctx, principal, rawID).Error(0)
}

func (m *MockService) TogglePublish(ctx context.Context, principal uuid.UUID, rawID string) (*model.Video, error) {
	args := m.Called(ctx, principal, rawID)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	ErrorCode  string          `json:"errorCode"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter giả lập AuthMiddleware bằng cách set principal trực tiếp
func setupRouter(svc *MockService, principal uuid.UUID) *gin.Engine {
	h := NewHandler(svc, 1)
	r := gin.New()
	auth := func(c *gin.Context) {
		if principal != uuid.Nil {
			c.Set(middleware.ContextUserIDKey, principal)
		}
		c.Next()
	}
	r.GET("/videos", h.ListVideos)
	r.POST("/videos", auth, h.PublishVideo)
	r.GET("/videos/:videoId", h.GetVideo)
	r.PATCH("/videos/:videoId", auth, h.UpdateVideo)
	r.DELETE("/videos/:videoId", auth, h.DeleteVideo)
	r.PATCH("/videos/toggle/publish/:videoId", auth, h.TogglePublishStatus)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, "binary:"+name)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestListVideos(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, model.ListVideosRequest{
		Page: 2, Limit: 0, Query: "cat", UserID: "u", SortBy: "title", SortType: "asc",
	}).Return(&model.ListVideosResponse{Total: 11, Page: 2, Limit: 10, Videos: []*model.Video{}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/videos?page=2&limit=abc&query=cat&userId=u&sortBy=title&sortType=asc", nil)
	setupRouter(svc, uuid.Nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"total":11,"page":2,"limit":10,"videos":[]}`, string(env.Data))
}

func TestPublishVideo(t *testing.T) {
	owner := uuid.New()
	svc := new(MockService)
	svc.On("Publish", mock.Anything, owner, mock.MatchedBy(func(r model.PublishVideoRequest) bool {
		return r.Title == "Intro" && r.VideoFile != nil && r.VideoFile.Filename == "a.mp4" && r.Thumbnail != nil
	})).Return(&model.Video{ID: uuid.New(), Title: "Intro", Owner: owner, IsPublished: true}, nil)

	body, ct := multipartBody(t,
		map[string]string{"title": "Intro", "description": "First"},
		map[string]string{"videoFile": "a.mp4", "thumbnail": "a.jpg"},
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", ct)
	setupRouter(svc, owner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Video published successfully", decode(t, w).Message)
	svc.AssertExpectations(t)
}

func TestPublishVideo_MissingThumbnailPassesNil(t *testing.T) {
	owner := uuid.New()
	svc := new(MockService)
	svc.On("Publish", mock.Anything, owner, mock.MatchedBy(func(r model.PublishVideoRequest) bool {
		return r.Thumbnail == nil
	})).Return(nil, apperror.Validation("VideoFile: thumbnail is required."))

	body, ct := multipartBody(t, map[string]string{"title": "Intro", "description": "x"}, map[string]string{"videoFile": "a.mp4"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", ct)
	setupRouter(svc, owner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).ErrorCode)
}

func TestPublishVideo_NotMultipart(t *testing.T) {
	svc := new(MockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc, uuid.New()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishVideo_Unauthenticated(t *testing.T) {
	svc := new(MockService)
	w := httptest.NewRecorder()
	setupRouter(svc, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/videos", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHENTICATED", decode(t, w).ErrorCode)
}

func TestGetVideo_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.Validation("Invalid video id"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperror.NotFound("Video not found", model.ErrVideoNotFound), http.StatusNotFound, "NOT_FOUND"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		svc := new(MockService)
		svc.On("GetByID", mock.Anything, "x").Return(nil, tt.err)

		w := httptest.NewRecorder()
		setupRouter(svc, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/x", nil))

		assert.Equal(t, tt.status, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, tt.code, env.ErrorCode)
	}
}

func TestUpdateVideo_JSON(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	svc := new(MockService)
	svc.On("Update", mock.Anything, owner, id.String(), mock.MatchedBy(func(r model.UpdateVideoRequest) bool {
		title, titleSet := r.Title.Get()
		return titleSet && title == "" && !r.Description.IsSet() && r.Thumbnail == nil
	})).Return(&model.Video{ID: id, Owner: owner}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/videos/"+id.String(), strings.NewReader(`{"title":"","description":null}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc, owner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateVideo_Multipart(t *testing.T) {
	owner := uuid.New()
	svc := new(MockService)
	svc.On("Update", mock.Anything, owner, "vid", mock.MatchedBy(func(r model.UpdateVideoRequest) bool {
		d, ok := r.Description.Get()
		return !r.Title.IsSet() && ok && d == "new" && r.Thumbnail != nil && r.Thumbnail.Filename == "t.png"
	})).Return(&model.Video{}, nil)

	body, ct := multipartBody(t, map[string]string{"description": "new"}, map[string]string{"thumbnail": "t.png"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/videos/vid", body)
	req.Header.Set("Content-Type", ct)
	setupRouter(svc, owner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateVideo_Forbidden(t *testing.T) {
	svc := new(MockService)
	svc.On("Update", mock.Anything, mock.Anything, "vid", mock.Anything).
		Return(nil, apperror.Forbidden("You are not allowed to update this video"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/videos/vid", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc, uuid.New()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w).ErrorCode)
}

func TestDeleteAndToggle(t *testing.T) {
	owner := uuid.New()
	svc := new(MockService)
	svc.On("Delete", mock.Anything, owner, "vid").Return(nil)
	svc.On("TogglePublish", mock.Anything, owner, "vid").Return(&model.Video{IsPublished: false}, nil)
	r := setupRouter(svc, owner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/videos/vid", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Video deleted successfully", decode(t, w).Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/videos/toggle/publish/vid", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Publish status updated successfully", decode(t, w).Message)
}
