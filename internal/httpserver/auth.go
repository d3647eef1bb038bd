package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.NewProfile(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "login_error", err)
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, "login_failed", err)
	}

	l.Info("login_successful", "username", req.Username)
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "refresh_error", err)
	}

	access, err := h.Svc.Refresh(ctx, req.Refresh)
	if err != nil {
		return fail(c, "refresh_failed", err)
	}
	return c.JSON(http.StatusOK, transport.AccessResponse{Access: access})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "logout_error", err)
	}
	if err := h.Svc.Logout(ctx, req.Refresh); err != nil {
		return fail(c, "logout_failed", err)
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, "me_error", err)
	}
	user, err := h.Svc.Profile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, "me_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProfile(user))
}
