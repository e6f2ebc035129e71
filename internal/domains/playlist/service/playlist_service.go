package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/config"
	"catalog-backend/internal/domains/playlist/model"
	"catalog-backend/internal/domains/playlist/repository"
	videoModel "catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/shared/access"
	"catalog-backend/internal/shared/apperror"
)

type playlistService struct {
	repo   repository.Repository
	videos VideoLookup
	cfg    config.CatalogConfig
}

func NewPlaylistService(repo repository.Repository, videos VideoLookup, cfg config.CatalogConfig) ServiceInterface {
	return &playlistService{
		repo:   repo,
		videos: videos,
		cfg:    cfg,
	}
}

// ========================= CREATE =====================
func (s *playlistService) Create(ctx context.Context, principal uuid.UUID, req model.CreatePlaylistRequest) (*model.Playlist, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	p := &model.Playlist{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Owner:       principal,
		Members:     model.Members{},
		Videos:      []*videoModel.Video{},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("playlist_id", p.ID.String()).
		Str("owner_id", principal.String()).
		Msg("Playlist created")

	return p, nil
}

// ========================= READ =====================
func (s *playlistService) ListByUser(ctx context.Context, rawUserID string) ([]*model.Playlist, error) {
	userID, err := parseID(rawUserID, "Invalid user id")
	if err != nil {
		return nil, err
	}

	playlists, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, playlists...); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (s *playlistService) GetByID(ctx context.Context, rawID string) (*model.Playlist, error) {
	id, err := parseID(rawID, "Invalid playlist id")
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.populate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ========================= MEMBERSHIP =====================

// AddVideo - không kiểm tra video tồn tại; member dangling bị bỏ qua khi đọc
func (s *playlistService) AddVideo(ctx context.Context, principal uuid.UUID, rawPlaylistID, rawVideoID string) (*MembershipResult, error) {
	return s.mutateMembership(ctx, principal, rawPlaylistID, rawVideoID, model.Members.Add)
}

func (s *playlistService) RemoveVideo(ctx context.Context, principal uuid.UUID, rawPlaylistID, rawVideoID string) (*MembershipResult, error) {
	return s.mutateMembership(ctx, principal, rawPlaylistID, rawVideoID, model.Members.Remove)
}

func (s *playlistService) mutateMembership(
	ctx context.Context,
	principal uuid.UUID,
	rawPlaylistID, rawVideoID string,
	op func(model.Members, uuid.UUID) (model.Members, bool),
) (*MembershipResult, error) {
	playlistID, videoID, err := parseIDPair(rawPlaylistID, rawVideoID)
	if err != nil {
		return nil, err
	}

	p, changed, err := s.repo.MutateMembers(ctx, playlistID, func(p *model.Playlist) (model.Members, error) {
		if err := access.RequireOwner(principal, p, "modify"); err != nil {
			return nil, err
		}
		next, _ := op(p.Members, videoID)
		return next, nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.populate(ctx, p); err != nil {
		return nil, err
	}

	return &MembershipResult{Playlist: p, Changed: changed}, nil
}

// ========================= UPDATE / DELETE =====================

// Update - ownership chỉ được check khi bật CATALOG_ENFORCE_PLAYLIST_UPDATE_OWNER
func (s *playlistService) Update(ctx context.Context, principal uuid.UUID, rawID string, req model.UpdatePlaylistRequest) (*model.Playlist, error) {
	id, err := parseID(rawID, "Invalid playlist id")
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if s.cfg.EnforcePlaylistUpdateOwner {
		if err := access.RequireOwner(principal, p, "update"); err != nil {
			return nil, err
		}
	} else if p.Owner != principal {
		log.Warn().
			Str("playlist_id", p.ID.String()).
			Str("principal", principal.String()).
			Msg("Playlist updated by non-owner")
	}

	req.Apply(p)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.populate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) Delete(ctx context.Context, principal uuid.UUID, rawID string) error {
	id, err := parseID(rawID, "Invalid playlist id")
	if err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := access.RequireOwner(principal, p, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	log.Info().Str("playlist_id", id.String()).Msg("Playlist deleted")
	return nil
}

// ========================= MAINTENANCE =====================
func (s *playlistService) PruneOrphans(ctx context.Context, batchSize int) (int64, error) {
	n, err := s.repo.PruneOrphans(ctx, batchSize)
	if err != nil {
		return n, err
	}
	log.Info().Int64("removed", n).Msg("Pruned orphan playlist memberships")
	return n, nil
}

// ========================= HELPERS =====================

// populate gắn Videos theo thứ tự Members, bỏ qua video đã bị xóa.
// Một query cho tất cả playlists.
func (s *playlistService) populate(ctx context.Context, playlists ...*model.Playlist) error {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, p := range playlists {
		for _, id := range p.Members {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	byID := map[uuid.UUID]*videoModel.Video{}
	if len(ids) > 0 {
		videos, err := s.videos.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, v := range videos {
			byID[v.ID] = v
		}
	}

	for _, p := range playlists {
		p.Videos = make([]*videoModel.Video, 0, len(p.Members))
		for _, id := range p.Members {
			if v, ok := byID[id]; ok {
				p.Videos = append(p.Videos, v)
			}
		}
	}
	return nil
}

func parseID(raw, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation(message)
	}
	return id, nil
}

func parseIDPair(rawPlaylistID, rawVideoID string) (uuid.UUID, uuid.UUID, error) {
	playlistID, perr := uuid.Parse(rawPlaylistID)
	videoID, verr := uuid.Parse(rawVideoID)
	if perr != nil || verr != nil {
		return uuid.Nil, uuid.Nil, apperror.Validation("Invalid playlist or video id")
	}
	return playlistID, videoID, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrPlaylistNotFound):
		return apperror.NotFound("Playlist not found", err)
	case errors.Is(err, model.ErrVersionConflict):
		return apperror.Conflict("Playlist was modified by another request, please retry", err)
	default:
		return err
	}
}
