package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-backend/internal/domains/playlist/model"
	"catalog-backend/internal/domains/playlist/service"
	"catalog-backend/internal/shared/middleware"
	"catalog-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
	// noopStatus là status cho add/remove không đổi gì (200 hoặc 400)
	noopStatus int
}

func NewHandler(service service.ServiceInterface, noopStatus int) *Handler {
	if noopStatus == 0 {
		noopStatus = http.StatusOK
	}
	return &Handler{
		service:    service,
		noopStatus: noopStatus,
	}
}

// CreatePlaylist - POST /api/v1/playlists
func (h *Handler) CreatePlaylist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	var req model.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	playlist, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Playlist created successfully", playlist)
}

// GetUserPlaylists - GET /api/v1/playlists/user/:userId
func (h *Handler) GetUserPlaylists(c *gin.Context) {
	playlists, err := h.service.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if len(playlists) == 0 {
		response.Success(c, http.StatusOK, "No playlists found for this user", []*model.Playlist{})
		return
	}
	response.Success(c, http.StatusOK, "User playlists fetched successfully", playlists)
}

// GetPlaylist - GET /api/v1/playlists/:playlistId
func (h *Handler) GetPlaylist(c *gin.Context) {
	playlist, err := h.service.GetByID(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Playlist fetched successfully", playlist)
}

// AddVideo - PATCH /api/v1/playlists/add/:videoId/:playlistId
func (h *Handler) AddVideo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	result, err := h.service.AddVideo(c.Request.Context(), userID, c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if !result.Changed {
		response.Success(c, h.noopStatus, "Video already in playlist", result.Playlist)
		return
	}
	response.Success(c, http.StatusOK, "Video added to playlist successfully", result.Playlist)
}

// RemoveVideo - PATCH /api/v1/playlists/remove/:videoId/:playlistId
func (h *Handler) RemoveVideo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	result, err := h.service.RemoveVideo(c.Request.Context(), userID, c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if !result.Changed {
		response.Success(c, h.noopStatus, "Video not found in playlist", result.Playlist)
		return
	}
	response.Success(c, http.StatusOK, "Video removed from playlist successfully", result.Playlist)
}

// UpdatePlaylist - PATCH /api/v1/playlists/:playlistId
// Body rỗng được chuyển xuống service để trả validation error thống nhất
func (h *Handler) UpdatePlaylist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	var req model.UpdatePlaylistRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	playlist, err := h.service.Update(c.Request.Context(), userID, c.Param("playlistId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Playlist updated successfully", playlist)
}

// DeletePlaylist - DELETE /api/v1/playlists/:playlistId
func (h *Handler) DeletePlaylist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("playlistId")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Playlist deleted successfully", gin.H{})
}
