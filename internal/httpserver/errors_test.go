package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", fmt.Errorf("%w: quantity must be at least 1", service.ErrValidation), http.StatusBadRequest, "quantity must be at least 1"},
		{"not found", fmt.Errorf("%w: basket not found", service.ErrNotFound), http.StatusNotFound, "basket not found"},
		{"conflict", fmt.Errorf("%w: type \"x\" already exists", service.ErrConflict), http.StatusConflict, `type "x" already exists`},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", fmt.Errorf("%w: admin role required", service.ErrForbidden), http.StatusForbidden, "admin role required"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid body"), http.StatusBadRequest, "invalid body"},
		{"unknown", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	c, rec := newContext(e, http.MethodPost, "/basket/add", "")

	err := NewValidator().Validate(&transport.AddDeviceRequest{DeviceID: 0, Quantity: 0})
	require.Error(t, err)

	HTTPErrorHandler(err, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, "required", body.Fields["device_id"])
	assert.Equal(t, "gte", body.Fields["quantity"])
}

func TestHTTPErrorHandler_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("pq: password authentication failed"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
