package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/vidtube/internal/model"
)

// TweetRepo provides persistence for tweets. Like VideoRepo, ownership
// checks ride inside the mutation statement itself.
type TweetRepo struct{ DB *sql.DB }

func NewTweetRepo(db *sql.DB) *TweetRepo { return &TweetRepo{DB: db} }

const tweetColumns = "id,owner_id,content,created_at,updated_at"

func scanTweet(row *sql.Row) (model.Tweet, error) {
	var t model.Tweet
	err := row.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tweet{}, ErrNotFound
	}
	if err != nil {
		return model.Tweet{}, err
	}
	return t, nil
}

// Create inserts a tweet and fills in the generated ID and timestamps.
func (r *TweetRepo) Create(ctx context.Context, t *model.Tweet) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tweets (owner_id, content) VALUES (?,?)", t.OwnerID, t.Content)
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
	*t = created
	return nil
}

// GetByID fetches a tweet by id.
func (r *TweetRepo) GetByID(ctx context.Context, id uint64) (model.Tweet, error) {
	return scanTweet(r.DB.QueryRowContext(ctx,
		"SELECT "+tweetColumns+" FROM tweets WHERE id=? LIMIT 1", id))
}

// ListByOwner returns one user's tweets, sorted and paginated per p.
func (r *TweetRepo) ListByOwner(ctx context.Context, ownerID uint64, p Page) ([]model.Tweet, error) {
	q := "SELECT " + tweetColumns + " FROM tweets WHERE owner_id=? " +
		p.OrderClause() + " LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, ownerID, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tweets := []model.Tweet{}
	for rows.Next() {
		var t model.Tweet
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

// UpdateContent rewrites a tweet's content in one conditional update.
// A zero-row update is resolved into ErrNotFound or ErrForbidden; matching
// owner with identical content counts as success.
func (r *TweetRepo) UpdateContent(ctx context.Context, id, ownerID uint64, content string) (model.Tweet, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tweets SET content=? WHERE id=? AND owner_id=?", content, id, ownerID)
	if err != nil {
		return model.Tweet{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Tweet{}, err
	}
	if n == 0 {
		var owner uint64
		err := r.DB.QueryRowContext(ctx,
			"SELECT owner_id FROM tweets WHERE id=? LIMIT 1", id).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tweet{}, ErrNotFound
		}
		if err != nil {
			return model.Tweet{}, err
		}
		if owner != ownerID {
			return model.Tweet{}, ErrForbidden
		}
	}
	return r.GetByID(ctx, id)
}

// DeleteByOwner removes a tweet only when ownerID owns it; a zero-row
// delete is ErrNotFound.
func (r *TweetRepo) DeleteByOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM tweets WHERE id=? AND owner_id=?", id, ownerID)
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
