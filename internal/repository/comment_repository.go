package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/vidtube/internal/model"
)

// CommentRepo provides persistence for video comments.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,video_id,owner_id,content,created_at,updated_at"

// Create inserts a comment and fills in the generated ID and timestamps.
// A foreign key violation on video_id (MySQL 1452) surfaces as ErrNotFound
// so commenting on a deleted video yields 404 instead of 500.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (video_id, owner_id, content) VALUES (?,?,?)",
		cm.VideoID, cm.OwnerID, cm.Content)
	if err != nil {
		if isFKViolation(err) {
			return ErrNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	var created model.Comment
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", uint64(id)).
		Scan(&created.ID, &created.VideoID, &created.OwnerID, &created.Content,
			&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return err
	}
	*cm = created
	return nil
}

// ListByVideo returns the comments on one video, sorted and paginated per p.
func (r *CommentRepo) ListByVideo(ctx context.Context, videoID uint64, p Page) ([]model.Comment, error) {
	return r.list(ctx, "video_id", videoID, p)
}

// ListByOwner returns the comments authored by one user.
func (r *CommentRepo) ListByOwner(ctx context.Context, ownerID uint64, p Page) ([]model.Comment, error) {
	return r.list(ctx, "owner_id", ownerID, p)
}

func (r *CommentRepo) list(ctx context.Context, scopeCol string, scopeID uint64, p Page) ([]model.Comment, error) {
	q := "SELECT " + commentColumns + " FROM comments WHERE " + scopeCol + "=? " +
		p.OrderClause() + " LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, scopeID, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.VideoID, &cm.OwnerID, &cm.Content,
			&cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// DeleteByOwner removes a comment only when ownerID owns it; a zero-row
// delete is ErrNotFound, conflating "absent" with "not yours".
func (r *CommentRepo) DeleteByOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM comments WHERE id=? AND owner_id=?", id, ownerID)
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

func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
