package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/middleware/auth"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/testutil"
)

type testApp struct {
	e      *echo.Echo
	db     *gorm.DB
	deps   *Deps
	events *testutil.EventRecorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gdb := testutil.NewDB(t)
	r := repo.New(gdb)
	rec := &testutil.EventRecorder{}

	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        rec,
	}
	deps := &Deps{
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: rec}},
		Auth:    &AuthHTTP{Svc: authSvc},
		Basket:  &BasketHTTP{Svc: &service.BasketService{Repo: r, Events: rec}},
		AuthMW:  auth.New(authSvc.AccessSecret, authSvc),
		Ready:   r.Ping,
	}

	e := NewEcho(logging.NewWithWriter(io.Discard, "error"))
	Register(e, deps)
	return &testApp{e: e, db: gdb, deps: deps, events: rec}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// login registers username with role and returns its access and refresh tokens.
func (a *testApp) login(t *testing.T, username, role string) (string, string) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/register/", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "Secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/login/", "", map[string]any{
		"username": username,
		"password": "Secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decode(t, rec, &pair)
	return pair.Access, pair.Refresh
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func newContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
