package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/utils"
)

// JWTAuth returns an Echo middleware that validates an access token and
// injects the authenticated identity into the request context. The token
// is taken from the Authorization header ("Bearer <jwt>") or, failing
// that, from the accessToken cookie set at login. Protected handlers read
// the identity via c.Get("user_id") (uint64) and c.Get("username").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			} else if ck, err := c.Cookie("accessToken"); err == nil {
				raw = ck.Value
			}
			if raw == "" {
				return utils.Fail(c, http.StatusUnauthorized, "missing access token")
			}

			userID, username, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return utils.Fail(c, http.StatusUnauthorized, "invalid or expired access token")
			}

			c.Set("user_id", userID)
			c.Set("username", username)
			return next(c)
		}
	}
}
