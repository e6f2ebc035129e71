package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"catalog-backend/internal/domains/playlist/model"
	"catalog-backend/pkg/database"
)

const playlistColumns = `id, name, description, owner_id, version, created_at, updated_at`

type postgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) Repository {
	return &postgresRepository{db: db}
}

// querier: cả pool và pgx.Tx đều thỏa mãn
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row rowScanner) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Owner, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Members = model.Members{}
	return &p, nil
}

func uuidArray(ids []uuid.UUID) interface{} {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return pq.Array(strs)
}

// loadMembers gắn members (theo position) cho các playlist
func loadMembers(ctx context.Context, q querier, playlists ...*model.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Playlist, len(playlists))
	ids := make([]uuid.UUID, 0, len(playlists))
	for _, p := range playlists {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := q.Query(ctx, `
		SELECT playlist_id, video_id
		FROM playlist_videos
		WHERE playlist_id = ANY($1::uuid[])
		ORDER BY playlist_id, position`, uuidArray(ids))
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var playlistID, videoID uuid.UUID
		if err := rows.Scan(&playlistID, &videoID); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		if p, ok := byID[playlistID]; ok {
			p.Members = append(p.Members, videoID)
		}
	}
	return rows.Err()
}

// ========================= CREATE =====================
func (r *postgresRepository) Create(ctx context.Context, p *model.Playlist) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO playlists (id, name, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING version, created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Owner,
	).Scan(&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}

	p.Members = model.Members{}
	return nil
}

// ========================= READ =====================
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	p, err := scanPlaylist(r.db.QueryRow(ctx,
		`SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist %s: %w", id, err)
	}

	if err := loadMembers(ctx, r.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	playlists := []*model.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	if err := loadMembers(ctx, r.db, playlists...); err != nil {
		return nil, err
	}
	return playlists, nil
}

// ========================= WRITE =====================
func (r *postgresRepository) Update(ctx context.Context, p *model.Playlist) error {
	err := r.db.QueryRow(ctx, `
		UPDATE playlists
		SET name = $1,
		    description = $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING version, updated_at`,
		p.Name, p.Description, p.ID, p.Version,
	).Scan(&p.Version, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return r.missingOrConflict(ctx, p.ID)
	}
	if err != nil {
		return fmt.Errorf("update playlist %s: %w", p.ID, err)
	}
	return nil
}

// missingOrConflict: UPDATE không match vì row đã bị xóa hoặc version đã đổi
func (r *postgresRepository) missingOrConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM playlists WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check playlist %s: %w", id, err)
	}
	if !exists {
		return model.ErrPlaylistNotFound
	}
	return model.ErrVersionConflict
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1`, id); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete playlist %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrPlaylistNotFound
		}
		return nil
	})
}

// ========================= MEMBERSHIP =====================
// MutateMembers: SELECT ... FOR UPDATE serialize mọi membership write
// trên cùng playlist, nên add/remove đồng thời không mất update.
func (r *postgresRepository) MutateMembers(ctx context.Context, id uuid.UUID, fn MutateFunc) (*model.Playlist, bool, error) {
	var changed bool

	p, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Playlist, error) {
		p, err := scanPlaylist(tx.QueryRow(ctx,
			`SELECT `+playlistColumns+` FROM playlists WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlaylistNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("lock playlist %s: %w", id, err)
		}

		if err := loadMembers(ctx, tx, p); err != nil {
			return nil, err
		}

		next, err := fn(p)
		if err != nil {
			return nil, err
		}

		added, removed := p.Members.Diff(next)
		if len(added) == 0 && len(removed) == 0 {
			return p, nil
		}

		if len(removed) > 0 {
			if _, err := tx.Exec(ctx, `
				DELETE FROM playlist_videos
				WHERE playlist_id = $1 AND video_id = ANY($2::uuid[])`,
				id, uuidArray(removed)); err != nil {
				return nil, fmt.Errorf("remove members: %w", err)
			}
		}

		if len(added) > 0 {
			// append sau position lớn nhất, giữ thứ tự của added
			if _, err := tx.Exec(ctx, `
				INSERT INTO playlist_videos (playlist_id, video_id, position)
				SELECT $1, a.video_id,
				       COALESCE((SELECT MAX(position) FROM playlist_videos WHERE playlist_id = $1), 0) + a.ord
				FROM unnest($2::uuid[]) WITH ORDINALITY AS a(video_id, ord)`,
				id, uuidArray(added)); err != nil {
				return nil, fmt.Errorf("add members: %w", err)
			}
		}

		if err := tx.QueryRow(ctx, `
			UPDATE playlists
			SET version = version + 1, updated_at = NOW()
			WHERE id = $1
			RETURNING version, updated_at`, id,
		).Scan(&p.Version, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("bump playlist version: %w", err)
		}

		p.Members = next
		changed = true
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}

	return p, changed, nil
}

// PruneOrphans xóa theo batch tới khi không còn orphan
func (r *postgresRepository) PruneOrphans(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	var total int64
	for {
		tag, err := r.db.Exec(ctx, `
			DELETE FROM playlist_videos
			WHERE (playlist_id, video_id) IN (
				SELECT pv.playlist_id, pv.video_id
				FROM playlist_videos pv
				LEFT JOIN videos v ON v.id = pv.video_id
				WHERE v.id IS NULL
				LIMIT $1
			)`, batchSize)
		if err != nil {
			return total, fmt.Errorf("prune orphan memberships: %w", err)
		}

		total += tag.RowsAffected()
		if tag.RowsAffected() < int64(batchSize) {
			return total, nil
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
}
