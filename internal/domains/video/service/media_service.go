package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/domains/video/repository"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/cache"
)

type mediaService struct {
	repo           repository.Repository
	objects        storage.ObjectStore
	imageProcessor *storage.ImageProcessor
	cache          cache.Cache
}

func NewMediaService(
	repo repository.Repository,
	objects storage.ObjectStore,
	imageProcessor *storage.ImageProcessor,
	cache cache.Cache,
) MediaServiceInterface {
	return &mediaService{
		repo:           repo,
		objects:        objects,
		imageProcessor: imageProcessor,
		cache:          cache,
	}
}

// ProcessThumbnail render variants cho thumbnail hiện tại của video.
// Video đã bị xóa hoặc thumbnail đã bị thay -> skip, không retry.
func (s *mediaService) ProcessThumbnail(ctx context.Context, payload shared.ProcessThumbnailPayload) error {
	id, err := uuid.Parse(payload.VideoID)
	if err != nil {
		return fmt.Errorf("invalid video id %q: %w", payload.VideoID, err)
	}

	original, err := s.objects.Download(ctx, payload.ThumbnailKey)
	if err != nil {
		return fmt.Errorf("failed to download thumbnail: %w", err)
	}

	if err := s.imageProcessor.ValidateImage(original); err != nil {
		// Ảnh không hợp lệ thì retry cũng vô ích
		log.Warn().Err(err).Str("video_id", payload.VideoID).Msg("Thumbnail is not a processable image, skipping variants")
		return nil
	}

	variants, err := s.imageProcessor.RenderVariants(original)
	if err != nil {
		return fmt.Errorf("failed to render variants: %w", err)
	}

	variantURLs := make(map[string]string, len(variants))
	for name, data := range variants {
		key := fmt.Sprintf("%s%s.jpg", model.VariantPrefix(id), name)
		url, err := s.objects.PutBytes(ctx, key, data, "image/jpeg")
		if err != nil {
			return fmt.Errorf("failed to upload variant %s: %w", name, err)
		}
		variantURLs[name] = url
	}

	err = s.repo.SetThumbnailVariants(ctx, id, payload.ThumbnailKey, variantURLs)
	if errors.Is(err, model.ErrVideoNotFound) {
		log.Info().Str("video_id", payload.VideoID).Msg("Video gone or thumbnail replaced, variants discarded")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, model.CacheKey(id)); err != nil {
		log.Warn().Err(err).Str("video_id", payload.VideoID).Msg("Cache invalidation failed")
	}
	invalidateLists(ctx, s.cache)

	log.Info().
		Str("video_id", payload.VideoID).
		Int("variants", len(variantURLs)).
		Msg("Thumbnail variants rendered")
	return nil
}

// DeleteMedia xóa objects của video và toàn bộ thumbnail variants
func (s *mediaService) DeleteMedia(ctx context.Context, payload shared.DeleteVideoMediaPayload) error {
	if err := s.objects.Delete(ctx, payload.Keys...); err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}

	id, err := uuid.Parse(payload.VideoID)
	if err != nil {
		return nil
	}

	// Chỉ xóa variants khi video thật sự không còn
	if _, err := s.repo.FindByID(ctx, id); errors.Is(err, model.ErrVideoNotFound) {
		if err := s.objects.DeleteByPrefix(ctx, model.VariantPrefix(id)); err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}
	}

	return nil
}
