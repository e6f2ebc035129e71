package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog-backend/internal/domains/playlist/model"
	"catalog-backend/internal/domains/playlist/repository"
	videoModel "catalog-backend/internal/domains/video/model"
)

// memoryRepo - Repository trong memory, mutex đóng vai row lock
type memoryRepo struct {
	mu        sync.Mutex
	playlists map[uuid.UUID]*model.Playlist
	clock     time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		playlists: map[uuid.UUID]*model.Playlist{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func clonePlaylist(p *model.Playlist) *model.Playlist {
	cp := *p
	cp.Members = append(model.Members{}, p.Members...)
	cp.Videos = nil
	return &cp
}

func (r *memoryRepo) Create(ctx context.Context, p *model.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Version = 1
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.playlists[p.ID] = clonePlaylist(p)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[id]
	if !ok {
		return nil, model.ErrPlaylistNotFound
	}
	return clonePlaylist(p), nil
}

func (r *memoryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Playlist{}
	for _, p := range r.playlists {
		if p.Owner == ownerID {
			out = append(out, clonePlaylist(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, p *model.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.playlists[p.ID]
	if !ok {
		return model.ErrPlaylistNotFound
	}
	if stored.Version != p.Version {
		return model.ErrVersionConflict
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Version++
	stored.UpdatedAt = r.tick()
	p.Version = stored.Version
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return model.ErrPlaylistNotFound
	}
	delete(r.playlists, id)
	return nil
}

func (r *memoryRepo) MutateMembers(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) (*model.Playlist, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.playlists[id]
	if !ok {
		return nil, false, model.ErrPlaylistNotFound
	}

	p := clonePlaylist(stored)
	next, err := fn(p)
	if err != nil {
		return nil, false, err
	}

	added, removed := p.Members.Diff(next)
	if len(added) == 0 && len(removed) == 0 {
		return p, false, nil
	}

	stored.Members = append(model.Members{}, next...)
	stored.Version++
	stored.UpdatedAt = r.tick()
	return clonePlaylist(stored), true, nil
}

func (r *memoryRepo) PruneOrphans(ctx context.Context, batchSize int) (int64, error) {
	return 0, nil
}

// videoStore - VideoLookup trong memory
type videoStore struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*videoModel.Video
	calls  int
}

func newVideoStore(videos ...*videoModel.Video) *videoStore {
	s := &videoStore{videos: map[uuid.UUID]*videoModel.Video{}}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *videoStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*videoModel.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := []*videoModel.Video{}
	for _, id := range ids {
		if v, ok := s.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *videoStore) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.videos, id)
}

func newVideo(title string) *videoModel.Video {
	return &videoModel.Video{ID: uuid.New(), Title: title, Owner: uuid.New(), IsPublished: true}
}
