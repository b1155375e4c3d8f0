package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/config"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/queue"
	qp "github.com/iliyamo/vidtube/internal/service"
	"github.com/iliyamo/vidtube/internal/utils"
)

// AuthHandler bundles dependencies for the account endpoints: register,
// login, logout, token refresh, password change, account/media updates
// and the channel profile.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Media MediaStore
}

func NewAuthHandler(cfg config.Config, users UserStore, media MediaStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Media: media}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
type updateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
type tokenPairResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
type loginResp struct {
	User model.User `json:"user"`
	tokenPairResp
}

// issueTokenPair signs a fresh access/refresh pair for the user and
// overwrites the stored refresh token slot. Overwriting implicitly
// invalidates whatever session held the previous refresh token.
func (h *AuthHandler) issueTokenPair(ctx context.Context, u model.User) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u.ID, u.Username, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, u.ID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	if err := h.Users.StoreRefreshHash(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw)); err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	return access, refresh, nil
}

func setAuthCookies(c echo.Context, access utils.AccessToken, refresh utils.RefreshToken) {
	c.SetCookie(&http.Cookie{
		Name: "accessToken", Value: access.Token, Expires: access.Exp,
		Path: "/", HttpOnly: true, Secure: true,
	})
	c.SetCookie(&http.Cookie{
		Name: "refreshToken", Value: refresh.Raw, Expires: refresh.Exp,
		Path: "/", HttpOnly: true, Secure: true,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name: name, Value: "", MaxAge: -1,
			Path: "/", HttpOnly: true, Secure: true,
		})
	}
}

// Register handles POST /users/register. The request is multipart: text
// fields fullName, email, username, password plus a required avatar file
// and an optional coverImage file. Uploaded objects are deleted again if
// a later step fails, so a failed registration leaves nothing behind in
// the media store.
func (h *AuthHandler) Register(c echo.Context) error {
	fullName := strings.TrimSpace(c.FormValue("fullName"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	username := strings.ToLower(strings.TrimSpace(c.FormValue("username")))
	password := c.FormValue("password")
	if fullName == "" || email == "" || username == "" || password == "" {
		return utils.Fail(c, http.StatusBadRequest, "all fields are required")
	}
	if !emailRe.MatchString(email) {
		return utils.Fail(c, http.StatusBadRequest, "invalid email format")
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		return utils.Fail(c, http.StatusBadRequest, "avatar file is required")
	}
	coverFile, _ := c.FormFile("coverImage") // optional

	avatarURL, err := saveUpload(c, h.Media, "avatars", avatarFile)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "avatar upload failed")
	}
	coverURL := ""
	if coverFile != nil {
		coverURL, err = saveUpload(c, h.Media, "covers", coverFile)
		if err != nil {
			_ = h.Media.Delete(c.Request().Context(), avatarURL)
			return utils.Fail(c, http.StatusInternalServerError, "cover image upload failed")
		}
	}

	hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "could not hash password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		_ = h.Media.Delete(c.Request().Context(), avatarURL)
		if coverURL != "" {
			_ = h.Media.Delete(c.Request().Context(), coverURL)
		}
		return failFor(c, err, "could not register user")
	}

	_ = qp.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Username:     u.Username,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return utils.Respond(c, http.StatusCreated, u, "user registered successfully")
}

// Login handles POST /users/login. Either username or email identifies
// the account; correct credentials yield a token pair both in the payload
// and as httpOnly cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "" {
		return utils.Fail(c, http.StatusBadRequest, "username or email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return failFor(c, err, "login failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return utils.Fail(c, http.StatusUnauthorized, "incorrect password")
	}

	access, refresh, err := h.issueTokenPair(ctx, u)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "could not issue tokens")
	}
	setAuthCookies(c, access, refresh)

	return utils.Respond(c, http.StatusOK, loginResp{
		User:          u,
		tokenPairResp: tokenPairResp{AccessToken: access.Token, RefreshToken: refresh.Raw},
	}, "user logged in successfully")
}

// Logout handles POST /users/logout (protected). It clears the refresh
// token slot so subsequent refresh calls fail until the next login, and
// expires both auth cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.ClearRefreshHash(ctx, userID); err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "logout failed")
	}
	clearAuthCookies(c)
	return utils.Respond(c, http.StatusOK, nil, "user logged out successfully")
}

// Refresh handles POST /users/refresh-token. The presented refresh token
// (cookie or body) must verify and must exactly match the stored slot;
// on success the pair is rotated and the old refresh token is dead. A
// mismatch means the token was already used or superseded.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := ""
	if ck, err := c.Cookie("refreshToken"); err == nil {
		raw = ck.Value
	}
	if raw == "" {
		var req refreshReq
		_ = c.Bind(&req)
		raw = strings.TrimSpace(req.RefreshToken)
	}
	if raw == "" {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized request")
	}

	userID, err := utils.ParseRefreshToken(h.Cfg.RefreshSecret, raw)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "invalid refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "invalid refresh token")
	}
	if u.RefreshTokenHash == "" || u.RefreshTokenHash != utils.HashRefreshRaw(raw) {
		return utils.Fail(c, http.StatusUnauthorized, "refresh token is expired or used")
	}

	access, refresh, err := h.issueTokenPair(ctx, u)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "could not issue tokens")
	}
	setAuthCookies(c, access, refresh)

	return utils.Respond(c, http.StatusOK,
		tokenPairResp{AccessToken: access.Token, RefreshToken: refresh.Raw},
		"access token refreshed")
}

// ChangePassword handles POST /users/change-password (protected).
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return utils.Fail(c, http.StatusBadRequest, "old and new password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return failFor(c, err, "could not load user")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return utils.Fail(c, http.StatusBadRequest, "invalid old password")
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "could not hash password")
	}
	if err := h.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "could not change password")
	}
	return utils.Respond(c, http.StatusOK, nil, "password changed successfully")
}

// CurrentUser handles GET /users/current-user (protected).
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return failFor(c, err, "could not load user")
	}
	return utils.Respond(c, http.StatusOK, u, "current user fetched successfully")
}

// UpdateAccount handles PATCH /users/update-account (protected). Both
// fields are required, matching the write-both semantics of the update.
func (h *AuthHandler) UpdateAccount(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req updateAccountReq
	if err := c.Bind(&req); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "invalid body")
	}
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return utils.Fail(c, http.StatusBadRequest, "all fields are required")
	}
	if !emailRe.MatchString(email) {
		return utils.Fail(c, http.StatusBadRequest, "invalid email format")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		return failFor(c, err, "could not update account")
	}
	return utils.Respond(c, http.StatusOK, u, "account details updated successfully")
}

// UpdateAvatar handles PATCH /users/avatar (protected, multipart).
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", h.Users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /users/cover-image (protected, multipart).
func (h *AuthHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage", h.Users.UpdateCoverImage)
}

func (h *AuthHandler) updateImage(c echo.Context, field string,
	update func(context.Context, uint64, string) (model.User, error)) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	fh, err := c.FormFile(field)
	if err != nil {
		return utils.Fail(c, http.StatusBadRequest, field+" file is missing")
	}
	url, err := saveUpload(c, h.Media, field+"s", fh)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "upload failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := update(ctx, userID, url)
	if err != nil {
		_ = h.Media.Delete(c.Request().Context(), url)
		return failFor(c, err, "could not update "+field)
	}
	return utils.Respond(c, http.StatusOK, u, field+" updated successfully")
}

// ChannelProfile handles GET /users/c/:username (protected). It returns
// the channel's subscriber aggregates plus whether the caller is
// currently subscribed.
func (h *AuthHandler) ChannelProfile(c echo.Context) error {
	viewerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return utils.Fail(c, http.StatusBadRequest, "username is missing")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile, err := h.Users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		return failFor(c, err, "could not load channel")
	}
	return utils.Respond(c, http.StatusOK, profile, "user channel fetched successfully")
}
