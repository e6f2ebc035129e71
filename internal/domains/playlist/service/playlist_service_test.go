package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-backend/internal/config"
	"catalog-backend/internal/domains/playlist/model"
	"catalog-backend/internal/shared/apperror"
	"catalog-backend/internal/shared/optional"
)

func newTestService(videos *videoStore, enforceUpdateOwner bool) (ServiceInterface, *memoryRepo) {
	repo := newMemoryRepo()
	svc := NewPlaylistService(repo, videos, config.CatalogConfig{
		DefaultPageSize:            10,
		MaxPageSize:                100,
		EnforcePlaylistUpdateOwner: enforceUpdateOwner,
	})
	return svc, repo
}

func videoIDs(p *model.Playlist) []uuid.UUID {
	out := make([]uuid.UUID, len(p.Videos))
	for i, v := range p.Videos {
		out[i] = v.ID
	}
	return out
}

func createPlaylist(t *testing.T, svc ServiceInterface, owner uuid.UUID) *model.Playlist {
	t.Helper()
	p, err := svc.Create(context.Background(), owner, model.CreatePlaylistRequest{Name: "Faves", Description: "best of"})
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(newVideoStore(), false)
	owner := uuid.New()

	p := createPlaylist(t, svc, owner)
	assert.Equal(t, owner, p.Owner)
	assert.Empty(t, p.Members)
	assert.NotNil(t, p.Videos)

	_, err := svc.Create(context.Background(), owner, model.CreatePlaylistRequest{Name: "x"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestPlaylistLifecycle(t *testing.T) {
	v1, v2 := newVideo("one"), newVideo("two")
	svc, _ := newTestService(newVideoStore(v1, v2), false)
	ctx := context.Background()
	owner := uuid.New()

	p := createPlaylist(t, svc, owner)
	pid := p.ID.String()

	res, err := svc.AddVideo(ctx, owner, pid, v1.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []uuid.UUID{v1.ID}, videoIDs(res.Playlist))

	// add lần 2 là no-op, state giữ nguyên
	res, err = svc.AddVideo(ctx, owner, pid, v1.ID.String())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, []uuid.UUID{v1.ID}, videoIDs(res.Playlist))

	res, err = svc.AddVideo(ctx, owner, pid, v2.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{v1.ID, v2.ID}, videoIDs(res.Playlist))

	res, err = svc.RemoveVideo(ctx, owner, pid, v1.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []uuid.UUID{v2.ID}, videoIDs(res.Playlist))

	res, err = svc.RemoveVideo(ctx, owner, pid, v1.ID.String())
	require.NoError(t, err)
	assert.False(t, res.Changed)

	got, err := svc.GetByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{v2.ID}, videoIDs(got))
}

func TestAddThenRemoveRestoresMembers(t *testing.T) {
	v1, v2 := newVideo("one"), newVideo("two")
	svc, _ := newTestService(newVideoStore(v1, v2), false)
	ctx := context.Background()
	owner := uuid.New()
	p := createPlaylist(t, svc, owner)

	_, err := svc.AddVideo(ctx, owner, p.ID.String(), v1.ID.String())
	require.NoError(t, err)
	before, err := svc.GetByID(ctx, p.ID.String())
	require.NoError(t, err)

	_, err = svc.AddVideo(ctx, owner, p.ID.String(), v2.ID.String())
	require.NoError(t, err)
	res, err := svc.RemoveVideo(ctx, owner, p.ID.String(), v2.ID.String())
	require.NoError(t, err)

	assert.Equal(t, before.Members, res.Playlist.Members)
}

func TestDanglingMembersAreOmitted(t *testing.T) {
	v1, v2 := newVideo("one"), newVideo("two")
	videos := newVideoStore(v1, v2)
	svc, _ := newTestService(videos, false)
	ctx := context.Background()
	owner := uuid.New()
	p := createPlaylist(t, svc, owner)

	// video không tồn tại vẫn được add
	ghost := uuid.New()
	for _, id := range []uuid.UUID{v1.ID, ghost, v2.ID} {
		_, err := svc.AddVideo(ctx, owner, p.ID.String(), id.String())
		require.NoError(t, err)
	}
	videos.remove(v1.ID)

	got, err := svc.GetByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Len(t, got.Members, 3)
	assert.Equal(t, []uuid.UUID{v2.ID}, videoIDs(got))
}

func TestMembership_Errors(t *testing.T) {
	v := newVideo("one")
	svc, _ := newTestService(newVideoStore(v), false)
	ctx := context.Background()
	owner := uuid.New()
	p := createPlaylist(t, svc, owner)

	_, err := svc.AddVideo(ctx, owner, "bad", v.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = svc.AddVideo(ctx, owner, p.ID.String(), "bad")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = svc.AddVideo(ctx, owner, uuid.NewString(), v.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	_, err = svc.AddVideo(ctx, uuid.New(), p.ID.String(), v.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	_, err = svc.RemoveVideo(ctx, uuid.New(), p.ID.String(), v.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	got, err := svc.GetByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Empty(t, got.Members)
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	store := newVideoStore()
	svc, _ := newTestService(store, false)
	ctx := context.Background()
	owner := uuid.New()
	p := createPlaylist(t, svc, owner)

	const n = 25
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.AddVideo(ctx, owner, p.ID.String(), id.String())
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	got, err := svc.GetByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, []uuid.UUID(got.Members))
	assert.Equal(t, 1+n, got.Version)
}

func TestListByUser(t *testing.T) {
	v := newVideo("one")
	svc, _ := newTestService(newVideoStore(v), false)
	ctx := context.Background()
	owner := uuid.New()

	first := createPlaylist(t, svc, owner)
	second := createPlaylist(t, svc, owner)
	createPlaylist(t, svc, uuid.New())
	_, err := svc.AddVideo(ctx, owner, first.ID.String(), v.ID.String())
	require.NoError(t, err)

	list, err := svc.ListByUser(ctx, owner.String())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, []uuid.UUID{v.ID}, videoIDs(list[1]))
	assert.NotNil(t, list[0].Videos)

	empty, err := svc.ListByUser(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.ListByUser(ctx, "nope")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestListByUser_SingleVideoLookup(t *testing.T) {
	v := newVideo("one")
	store := newVideoStore(v)
	svc, _ := newTestService(store, false)
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 3; i++ {
		p := createPlaylist(t, svc, owner)
		_, err := svc.AddVideo(ctx, owner, p.ID.String(), v.ID.String())
		require.NoError(t, err)
	}

	store.calls = 0
	_, err := svc.ListByUser(ctx, owner.String())
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(newVideoStore(), false)
	ctx := context.Background()
	owner := uuid.New()
	p := createPlaylist(t, svc, owner)

	_, err := svc.Update(ctx, owner, p.ID.String(), model.UpdatePlaylistRequest{})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = svc.Update(ctx, owner, p.ID.String(), model.UpdatePlaylistRequest{Name: optional.Some(" ")})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	got, err := svc.Update(ctx, owner, p.ID.String(), model.UpdatePlaylistRequest{Description: optional.Some("")})
	require.NoError(t, err)
	assert.Equal(t, "Faves", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, 2, got.Version)

	_, err = svc.Update(ctx, owner, uuid.NewString(), model.UpdatePlaylistRequest{Name: optional.Some("x")})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

// interleavedRepo chạy afterRead ngay sau GetByID, giả lập một request khác ghi chen vào
type interleavedRepo struct {
	*memoryRepo
	afterRead func()
}

func (r *interleavedRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	p, err := r.memoryRepo.GetByID(ctx, id)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return p, err
}

func TestUpdate_ConcurrentEditConflicts(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	repo := &interleavedRepo{memoryRepo: newMemoryRepo()}
	svc := NewPlaylistService(repo, newVideoStore(), config.CatalogConfig{DefaultPageSize: 10, MaxPageSize: 100})
	p := createPlaylist(t, svc, owner)

	repo.afterRead = func() {
		_, err := svc.Update(ctx, owner, p.ID.String(), model.UpdatePlaylistRequest{Name: optional.Some("renamed")})
		require.NoError(t, err)
	}

	_, err := svc.Update(ctx, owner, p.ID.String(), model.UpdatePlaylistRequest{Description: optional.Some("new desc")})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	// edit đầu tiên không bị ghi đè bằng name cũ
	got, err := svc.GetByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "best of", got.Description)
	assert.Equal(t, 2, got.Version)

	// retry với version mới thì thành công
	got, err = svc.Update(ctx, owner, p.ID.String(), model.UpdatePlaylistRequest{Description: optional.Some("new desc")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "new desc", got.Description)
}

func TestUpdate_OwnershipPolicy(t *testing.T) {
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	rename := model.UpdatePlaylistRequest{Name: optional.Some("renamed")}

	lenient, _ := newTestService(newVideoStore(), false)
	p := createPlaylist(t, lenient, owner)
	got, err := lenient.Update(ctx, stranger, p.ID.String(), rename)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, owner, got.Owner)

	strict, _ := newTestService(newVideoStore(), true)
	p = createPlaylist(t, strict, owner)
	_, err = strict.Update(ctx, stranger, p.ID.String(), rename)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(newVideoStore(), false)
	ctx := context.Background()
	owner := uuid.New()
	p := createPlaylist(t, svc, owner)

	err := svc.Delete(ctx, uuid.New(), p.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	require.NoError(t, svc.Delete(ctx, owner, p.ID.String()))

	_, err = svc.GetByID(ctx, p.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	err = svc.Delete(ctx, owner, p.ID.String())
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	err = svc.Delete(ctx, owner, "x")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
