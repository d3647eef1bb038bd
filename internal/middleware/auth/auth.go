package auth

import (
	"context"
	"net/http"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/tokens"
)

const (
	ContextKeyClaims = "user"
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// AdminChecker resolves admin rights from the user store.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID uint) error
}

type Middleware struct {
	Admins AdminChecker
	jwt    echo.MiddlewareFunc
}

// New builds bearer-token authentication on top of echo-jwt. Tokens are
// read from "Authorization: Bearer <access>".
func New(accessSecret []byte, admins AdminChecker) *Middleware {
	return &Middleware{
		Admins: admins,
		jwt: echojwt.WithConfig(echojwt.Config{
			ContextKey: ContextKeyClaims,
			ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
				return tokens.AccessClaimsFromToken(auth, accessSecret)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 401, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid access token")
			},
		}),
	}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.jwt(identify(next))
}

// RequireAdmin authenticates the caller and then checks the stored role.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		userID, _ := UserID(c)
		if err := m.Admins.RequireAdmin(c.Request().Context(), userID); err != nil {
			return err
		}
		return next(c)
	})
}

func identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(ContextKeyClaims).(*tokens.AccessClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid access token")
		}
		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || id == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid access token")
		}

		c.Set(ContextKeyUserID, uint(id))
		c.Set(ContextKeyRole, claims.Role)
		return next(c)
	}
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextKeyUserID).(uint)
	return id, ok && id != 0
}
