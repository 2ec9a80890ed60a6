package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"filmoteca/internal/apperr"
	"filmoteca/internal/model"
	"filmoteca/internal/service"
)

const (
	// ContextUserKey is where the authenticated user is stored on the echo context.
	ContextUserKey = "current_user"
	// ContextTokenKey is where the raw session token is stored on the echo context.
	ContextTokenKey = "session_token"
)

// Session authenticates the request with a bearer session token. The session
// row and the owning user's active flag are re-checked on every request.
func Session(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return sessionError()
			}

			user, err := authService.ResolveSession(c.Request().Context(), token)
			if err != nil {
				httpErr := apperr.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if user == nil {
				return sessionError()
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// RequireAdmin gates a route on the authenticated user's role. It never
// trusts a role claimed by the client; Session must run first.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return sessionError()
			}
			if user.Role != model.RoleAdmin {
				httpErr := apperr.MapErrorToHTTP(apperr.ErrUnauthorized)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user set by Session, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextUserKey).(*model.User)
	return user
}

// SessionToken returns the raw bearer token set by Session.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ContextTokenKey).(string)
	return token
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func sessionError() error {
	httpErr := apperr.MapErrorToHTTP(apperr.ErrInvalidSession)
	return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse())
}
