package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/vidtube/internal/model"
)

// UserRepo provides persistence for user accounts, the single refresh
// token slot, and the channel profile aggregate.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,full_name,avatar,cover_image,password_hash,refresh_token_hash,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var refresh sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.CoverImage,
		&u.PasswordHash, &refresh, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.RefreshTokenHash = refresh.String
	return u, nil
}

// Create inserts a new user with an already hashed password and fills in
// the generated ID and timestamps. The unique key over username and email
// maps MySQL duplicate errors (1062) to ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, full_name, avatar, cover_image, password_hash) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.FullName, u.Avatar, u.CoverImage, u.PasswordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUserExists
		}
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
	*u = created
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByUsernameOrEmail fetches a user matching either handle. Both inputs
// are normalized to lower case before the lookup.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1", username, email))
}

// StoreRefreshHash overwrites the refresh token slot. Storing a new hash
// implicitly invalidates whatever session held the previous token.
func (r *UserRepo) StoreRefreshHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=?", hash, id)
	return err
}

// ClearRefreshHash empties the refresh token slot so subsequent refresh
// calls fail until the next login.
func (r *UserRepo) ClearRefreshHash(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=NULL WHERE id=?", id)
	return err
}

// UpdatePasswordHash replaces the stored password hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// UpdateAccount sets the full name and email and returns the fresh record.
func (r *UserRepo) UpdateAccount(ctx context.Context, id uint64, fullName, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, email=? WHERE id=?", fullName, email, id); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrUserExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdateAvatar stores a new avatar URL and returns the fresh record.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, url string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar=? WHERE id=?", url, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdateCoverImage stores a new cover image URL and returns the fresh record.
func (r *UserRepo) UpdateCoverImage(ctx context.Context, id uint64, url string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET cover_image=? WHERE id=?", url, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// ChannelProfile loads a channel by username together with its subscriber
// count, subscribed-to count and whether viewerID currently follows it.
// The three aggregates run as correlated subqueries in a single statement.
func (r *UserRepo) ChannelProfile(ctx context.Context, username string, viewerID uint64) (model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var p model.ChannelProfile
	err := r.DB.QueryRowContext(ctx, `
SELECT u.id, u.username, u.full_name, u.email, u.avatar, u.cover_image,
       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
       EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?)
FROM users u WHERE u.username = ? LIMIT 1`,
		viewerID, username).Scan(
		&p.ID, &p.Username, &p.FullName, &p.Email, &p.Avatar, &p.CoverImage,
		&p.SubscribersCount, &p.ChannelsSubscribedTo, &p.IsSubscribed)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChannelProfile{}, ErrNotFound
	}
	if err != nil {
		return model.ChannelProfile{}, err
	}
	return p, nil
}
