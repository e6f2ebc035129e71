package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"catalog-backend/internal/config"
	"catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/domains/video/repository"
	"catalog-backend/internal/infrastructure/queue"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/access"
	"catalog-backend/internal/shared/apperror"
	"catalog-backend/pkg/cache"
)

// TTL cho list pages, mọi write đều xóa cả prefix
const listCacheTTL = time.Minute

type videoService struct {
	repo     repository.Repository
	media    storage.MediaStore
	cache    cache.Cache
	enqueuer queue.Enqueuer
	cfg      config.CatalogConfig
}

func NewVideoService(
	repo repository.Repository,
	media storage.MediaStore,
	cache cache.Cache,
	enqueuer queue.Enqueuer,
	cfg config.CatalogConfig,
) ServiceInterface {
	return &videoService{
		repo:     repo,
		media:    media,
		cache:    cache,
		enqueuer: enqueuer,
		cfg:      cfg,
	}
}

// ========================= LIST =====================
func (s *videoService) List(ctx context.Context, req model.ListVideosRequest) (*model.ListVideosResponse, error) {
	q := req.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)

	cacheKey := model.ListCacheKey(q)
	var cached model.ListVideosResponse
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache GET error")
	}
	if found {
		return &cached, nil
	}

	videos, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	res := &model.ListVideosResponse{
		Total:  total,
		Page:   q.Page,
		Limit:  q.Limit,
		Videos: videos,
	}
	if err := s.cache.Set(ctx, cacheKey, res, listCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache SET error")
	}
	return res, nil
}

// ========================= PUBLISH =====================
// Publish validate trước, upload 2 binary song song, rồi mới insert.
// Upload thành công nhưng insert lỗi -> xóa objects vừa upload.
func (s *videoService) Publish(ctx context.Context, principal uuid.UUID, req model.PublishVideoRequest) (*model.Video, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var videoRes, thumbRes *storage.UploadResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.media.Upload(gctx, *req.VideoFile, storage.UploadOptions{
			ResourceKind: storage.ResourceVideo,
			Folder:       storage.FolderVideos,
		})
		videoRes = res
		return err
	})
	g.Go(func() error {
		res, err := s.media.Upload(gctx, *req.Thumbnail, storage.UploadOptions{
			ResourceKind: storage.ResourceImage,
			Folder:       storage.FolderThumbnails,
		})
		thumbRes = res
		return err
	})

	if err := g.Wait(); err != nil {
		s.discardUploads(ctx, videoRes, thumbRes)
		return nil, apperror.Upstream("Failed to upload media", err)
	}

	duration := videoRes.Duration
	if duration <= 0 {
		duration = storage.FallbackDurationSeconds
	}

	video := &model.Video{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		VideoFile:    videoRes.SecureURL,
		VideoFileKey: videoRes.Key,
		Thumbnail:    thumbRes.SecureURL,
		ThumbnailKey: thumbRes.Key,
		Duration:     duration,
		IsPublished:  true,
		Owner:        principal,
	}

	if err := s.repo.Create(ctx, video); err != nil {
		s.discardUploads(ctx, videoRes, thumbRes)
		return nil, err
	}

	invalidateLists(ctx, s.cache)
	s.enqueueThumbnail(video)

	log.Info().
		Str("video_id", video.ID.String()).
		Str("owner_id", principal.String()).
		Int("duration", video.Duration).
		Msg("Video published")

	return video, nil
}

// ========================= READ =====================
// GetByID - cache-aside, key "video:<id>"
func (s *videoService) GetByID(ctx context.Context, rawID string) (*model.Video, error) {
	id, err := parseVideoID(rawID)
	if err != nil {
		return nil, err
	}

	cacheKey := model.CacheKey(id)
	var cached model.Video
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache GET error")
	}
	if found {
		return &cached, nil
	}

	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, video, s.cacheTTL()); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache SET error")
	}

	return video, nil
}

// ========================= UPDATE =====================
func (s *videoService) Update(ctx context.Context, principal uuid.UUID, rawID string, req model.UpdateVideoRequest) (*model.Video, error) {
	id, err := parseVideoID(rawID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	video, err := s.loadOwned(ctx, principal, id, "update")
	if err != nil {
		return nil, err
	}

	req.Apply(video)

	var newThumb *storage.UploadResult
	oldThumbKey := video.ThumbnailKey
	if req.Thumbnail != nil {
		newThumb, err = s.media.Upload(ctx, *req.Thumbnail, storage.UploadOptions{
			ResourceKind: storage.ResourceImage,
			Folder:       storage.FolderThumbnails,
		})
		if err != nil {
			return nil, apperror.Upstream("Failed to upload thumbnail", err)
		}
		video.Thumbnail = newThumb.SecureURL
		video.ThumbnailKey = newThumb.Key
		video.ThumbnailVariants = nil
	}

	if err := s.repo.Update(ctx, video); err != nil {
		s.discardUploads(ctx, newThumb)
		return nil, mapRepoError(err)
	}

	s.invalidate(ctx, id)

	if newThumb != nil {
		s.enqueueThumbnail(video)
		if oldThumbKey != "" {
			s.enqueueMediaDeletion(video.ID, []string{oldThumbKey})
		}
	}

	return video, nil
}

// ========================= DELETE =====================
func (s *videoService) Delete(ctx context.Context, principal uuid.UUID, rawID string) error {
	id, err := parseVideoID(rawID)
	if err != nil {
		return err
	}

	video, err := s.loadOwned(ctx, principal, id, "delete")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.invalidate(ctx, id)
	s.enqueueMediaDeletion(id, video.MediaKeys())

	log.Info().Str("video_id", id.String()).Msg("Video deleted")
	return nil
}

// ========================= TOGGLE PUBLISH =====================
func (s *videoService) TogglePublish(ctx context.Context, principal uuid.UUID, rawID string) (*model.Video, error) {
	id, err := parseVideoID(rawID)
	if err != nil {
		return nil, err
	}

	if _, err := s.loadOwned(ctx, principal, id, "update"); err != nil {
		return nil, err
	}

	video, err := s.repo.TogglePublish(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.invalidate(ctx, id)
	return video, nil
}

// ========================= HELPERS =====================

// loadOwned đọc trực tiếp từ DB (không qua cache) rồi check owner
func (s *videoService) loadOwned(ctx context.Context, principal, id uuid.UUID, action string) (*model.Video, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := access.RequireOwner(principal, video, action); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) cacheTTL() time.Duration {
	if s.cfg.VideoCacheTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.cfg.VideoCacheTTLMinutes) * time.Minute
}

func (s *videoService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, model.CacheKey(id)); err != nil {
		log.Warn().Err(err).Str("video_id", id.String()).Msg("Cache invalidation failed")
	}
	invalidateLists(ctx, s.cache)
}

// invalidateLists xóa mọi list page đã cache, dùng chung với mediaService
func invalidateLists(ctx context.Context, c cache.Cache) {
	if err := c.DeletePattern(ctx, model.ListCachePrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("List cache invalidation failed")
	}
}

// discardUploads xóa best-effort các objects đã upload của request lỗi
func (s *videoService) discardUploads(ctx context.Context, results ...*storage.UploadResult) {
	var keys []string
	for _, r := range results {
		if r != nil && r.Key != "" {
			keys = append(keys, r.Key)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.media.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Failed to discard uploaded media")
	}
}

func (s *videoService) enqueueThumbnail(video *model.Video) {
	task, err := queue.NewTask(shared.TypeProcessThumbnail, shared.ProcessThumbnailPayload{
		VideoID:      video.ID.String(),
		ThumbnailKey: video.ThumbnailKey,
	})
	if err == nil {
		_, err = s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueMedia), asynq.MaxRetry(2))
	}
	if err != nil {
		log.Error().Err(err).Str("video_id", video.ID.String()).Msg("Failed to enqueue thumbnail job")
	}
}

func (s *videoService) enqueueMediaDeletion(id uuid.UUID, keys []string) {
	task, err := queue.NewTask(shared.TypeDeleteVideoMedia, shared.DeleteVideoMediaPayload{
		VideoID: id.String(),
		Keys:    keys,
	})
	if err == nil {
		_, err = s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueMedia), asynq.MaxRetry(5))
	}
	if err != nil {
		log.Error().Err(err).Str("video_id", id.String()).Strs("keys", keys).Msg("Failed to enqueue media deletion")
	}
}

func parseVideoID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid video id")
	}
	return id, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrVideoNotFound):
		return apperror.NotFound("Video not found", err)
	case errors.Is(err, model.ErrVersionConflict):
		return apperror.Conflict("Video was modified by another request, please retry", err)
	default:
		return err
	}
}
