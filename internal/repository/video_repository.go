package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/vidtube/internal/model"
)

// VideoRepo provides persistence for videos. Ownership-guarded mutations
// are expressed as single conditional statements (WHERE id AND owner_id)
// instead of fetch-compare-write sequences, so concurrent requests cannot
// race between the ownership check and the write.
type VideoRepo struct{ DB *sql.DB }

func NewVideoRepo(db *sql.DB) *VideoRepo { return &VideoRepo{DB: db} }

const videoColumns = "id,owner_id,video_file,thumbnail,title,description,duration,views,is_published,created_at,updated_at"

func scanVideo(row *sql.Row) (model.Video, error) {
	var v model.Video
	err := row.Scan(&v.ID, &v.OwnerID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description,
		&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Video{}, ErrNotFound
	}
	if err != nil {
		return model.Video{}, err
	}
	return v, nil
}

// Create inserts a video record and fills in the generated ID and
// timestamps. New videos start published with zero views.
func (r *VideoRepo) Create(ctx context.Context, v *model.Video) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO videos (owner_id, video_file, thumbnail, title, description, duration, is_published) VALUES (?,?,?,?,?,?,1)",
		v.OwnerID, v.VideoFile, v.Thumbnail, v.Title, v.Description, v.Duration)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*v = created
	return nil
}

// GetByID fetches a video by id without touching the view counter.
func (r *VideoRepo) GetByID(ctx context.Context, id uint64) (model.Video, error) {
	return scanVideo(r.DB.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE id=? LIMIT 1", id))
}

// FetchAndCountView bumps the view counter by exactly one and returns the
// updated record. The increment is a single atomic statement, so it never
// loses counts under concurrent fetches of the same video.
func (r *VideoRepo) FetchAndCountView(ctx context.Context, id uint64) (model.Video, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE videos SET views = views + 1 WHERE id=?", id)
	if err != nil {
		return model.Video{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Video{}, err
	}
	if n == 0 {
		return model.Video{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// ListByOwner returns published videos of one channel, optionally filtered
// by a case-insensitive title substring, sorted and paginated per p.
func (r *VideoRepo) ListByOwner(ctx context.Context, ownerID uint64, query string, p Page) ([]model.Video, error) {
	q := "SELECT " + videoColumns + " FROM videos WHERE owner_id=? AND is_published=1"
	args := []interface{}{ownerID}
	if query != "" {
		q += " AND LOWER(title) LIKE CONCAT('%', LOWER(?), '%')"
		args = append(args, query)
	}
	q += " " + p.OrderClause() + " LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset())

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description,
			&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// UpdateDetails applies the non-nil fields to a video owned by ownerID in
// one conditional update. When the statement matches no row, a follow-up
// lookup distinguishes ErrNotFound from ErrForbidden; a row that matched
// but needed no change counts as success.
func (r *VideoRepo) UpdateDetails(ctx context.Context, id, ownerID uint64, title, description, thumbnail *string) (model.Video, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE videos SET title=COALESCE(?, title), description=COALESCE(?, description), thumbnail=COALESCE(?, thumbnail) WHERE id=? AND owner_id=?",
		title, description, thumbnail, id, ownerID)
	if err != nil {
		return model.Video{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Video{}, err
	}
	if n == 0 {
		if err := r.explainMiss(ctx, id, ownerID); err != nil {
			return model.Video{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// TogglePublish flips the publish flag of a video owned by ownerID.
func (r *VideoRepo) TogglePublish(ctx context.Context, id, ownerID uint64) (model.Video, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE videos SET is_published = NOT is_published WHERE id=? AND owner_id=?",
		id, ownerID)
	if err != nil {
		return model.Video{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Video{}, err
	}
	if n == 0 {
		if err := r.explainMiss(ctx, id, ownerID); err != nil {
			return model.Video{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// DeleteByOwner removes a video only when ownerID owns it. A zero-row
// delete is reported as ErrNotFound without revealing whether the video
// exists under another owner.
func (r *VideoRepo) DeleteByOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM videos WHERE id=? AND owner_id=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// explainMiss resolves a zero-row conditional update: missing row means
// ErrNotFound, a different owner means ErrForbidden, and a matching owner
// means the update was a no-op (nil).
func (r *VideoRepo) explainMiss(ctx context.Context, id, ownerID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT owner_id FROM videos WHERE id=? LIMIT 1", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	return nil
}
