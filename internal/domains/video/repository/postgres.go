package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"catalog-backend/internal/domains/video/model"
	"catalog-backend/pkg/database"
)

// postgresRepository - raw SQL với pgxpool
type postgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) Repository {
	return &postgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*model.Video, error) {
	var (
		v        model.Video
		ownerID  *uuid.UUID
		username *string
		fullName *string
		avatar   *string
		variants map[string]string
	)

	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.VideoFile, &v.VideoFileKey,
		&v.Thumbnail, &v.ThumbnailKey, &variants, &v.Duration,
		&v.IsPublished, &v.Owner, &v.Version, &v.CreatedAt, &v.UpdatedAt,
		&ownerID, &username, &fullName, &avatar,
	)
	if err != nil {
		return nil, err
	}

	if len(variants) > 0 {
		v.ThumbnailVariants = variants
	}

	// Owner có thể đã bị xóa khỏi identity context
	if ownerID != nil {
		v.OwnerProfile = &model.OwnerProjection{
			ID:       *ownerID,
			Username: deref(username),
			FullName: deref(fullName),
			Avatar:   deref(avatar),
		}
	}

	return &v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ========================= LIST =====================
// List đọc COUNT và page trong một transaction REPEATABLE READ read-only,
// total luôn khớp với snapshot của page.
func (r *postgresRepository) List(ctx context.Context, q model.ListQuery) ([]*model.Video, int64, error) {
	lq := buildListQuery(q)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("begin list snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(lq.CountSQL, lq.Args...)
	batch.Queue(lq.PageSQL, lq.PageArgs...)

	br := tx.SendBatch(ctx, batch)

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		br.Close()
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		br.Close()
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}

	videos := make([]*model.Video, 0, q.Limit)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			rows.Close()
			br.Close()
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		br.Close()
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	if err := br.Close(); err != nil {
		return nil, 0, fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit list snapshot: %w", err)
	}

	return videos, total, nil
}

// ========================= READ =====================
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos v %s WHERE v.id = $1`, selectColumns, ownerJoin)

	v, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find video %s: %w", id, err)
	}
	return v, nil
}

func (r *postgresRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Video, error) {
	if len(ids) == 0 {
		return []*model.Video{}, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := fmt.Sprintf(`SELECT %s FROM videos v %s WHERE v.id = ANY($1::uuid[])`, selectColumns, ownerJoin)

	rows, err := r.db.Query(ctx, query, pq.Array(strIDs))
	if err != nil {
		return nil, fmt.Errorf("find videos by ids: %w", err)
	}
	defer rows.Close()

	videos := make([]*model.Video, 0, len(ids))
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// ========================= WRITE =====================
func (r *postgresRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (
			id, title, description, video_file, video_file_key,
			thumbnail, thumbnail_key, duration, is_published, owner_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING version, created_at, updated_at`

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		v.ID, v.Title, v.Description, v.VideoFile, v.VideoFileKey,
		v.Thumbnail, v.ThumbnailKey, v.Duration, v.IsPublished, v.Owner,
	).Scan(&v.Version, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, v *model.Video) error {
	query := `
		UPDATE videos
		SET title = $1,
		    description = $2,
		    thumbnail = $3,
		    thumbnail_key = $4,
		    thumbnail_variants = $5,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $6 AND version = $7
		RETURNING version, updated_at`

	// thumbnail mới -> variants cũ bị reset về '{}' cho tới khi worker render xong
	variants := v.ThumbnailVariants
	if variants == nil {
		variants = map[string]string{}
	}

	err := r.db.QueryRow(ctx, query,
		v.Title, v.Description, v.Thumbnail, v.ThumbnailKey, variants, v.ID, v.Version,
	).Scan(&v.Version, &v.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return r.missingOrConflict(ctx, v.ID)
	}
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.ID, err)
	}
	return nil
}

// missingOrConflict phân biệt row bị xóa với version lệch
func (r *postgresRepository) missingOrConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check video %s: %w", id, err)
	}
	if !exists {
		return model.ErrVideoNotFound
	}
	return model.ErrVersionConflict
}

// TogglePublish flip is_published trong một statement
func (r *postgresRepository) TogglePublish(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	query := fmt.Sprintf(`
		WITH v AS (
			UPDATE videos
			SET is_published = NOT is_published,
			    version = version + 1,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT %s FROM v %s`, selectColumns, ownerJoin)

	v, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle publish %s: %w", id, err)
	}
	return v, nil
}

// SetThumbnailVariants không bump version: variants là dữ liệu dẫn xuất từ worker.
// thumbnailKey phải khớp thumbnail hiện tại, nếu đã bị thay thì bỏ qua.
func (r *postgresRepository) SetThumbnailVariants(ctx context.Context, id uuid.UUID, thumbnailKey string, variants map[string]string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE videos SET thumbnail_variants = $1 WHERE id = $2 AND thumbnail_key = $3`,
		variants, id, thumbnailKey,
	)
	if err != nil {
		return fmt.Errorf("set thumbnail variants %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// Delete xóa vĩnh viễn. Membership rows trỏ tới video được giữ lại
// và bị bỏ qua khi đọc playlist.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}
