package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/middleware/auth"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/testutil"
	"github.com/Skotchmaster/techstore/internal/transport"
)

func TestCatalogHTTP_CreateType(t *testing.T) {
	app := newTestApp(t)

	c, rec := newContext(app.e, http.MethodPost, "/types", `{"name":"Phones"}`)
	require.NoError(t, app.deps.Catalog.CreateType(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got models.Type
	decode(t, rec, &got)
	assert.Equal(t, "Phones", got.Name)
	assert.NotZero(t, got.ID)

	c, _ = newContext(app.e, http.MethodPost, "/types", `{"name":"Phones"}`)
	err := app.deps.Catalog.CreateType(c)
	require.Error(t, err)
	status, _ := statusFor(err)
	assert.Equal(t, http.StatusConflict, status)

	c, _ = newContext(app.e, http.MethodPost, "/types", `{"name":`)
	err = app.deps.Catalog.CreateType(c)
	status, msg := statusFor(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid body", msg)
}

func TestCatalogHTTP_GetDevice(t *testing.T) {
	app := newTestApp(t)
	d := testutil.CreateDevice(t, app.db, "Pixel", "100")

	c, rec := newContext(app.e, http.MethodGet, "/devices/:id", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, app.deps.Catalog.GetDevice(c))

	var got transport.DeviceResponse
	decode(t, rec, &got)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, "100.00", got.Price)
	assert.Equal(t, "type-Pixel", got.Type.Name)
	assert.Equal(t, "brand-Pixel", got.Brand.Name)

	c, _ = newContext(app.e, http.MethodGet, "/devices/:id", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	status, _ := statusFor(app.deps.Catalog.GetDevice(c))
	assert.Equal(t, http.StatusBadRequest, status)

	c, _ = newContext(app.e, http.MethodGet, "/devices/:id", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	status, _ = statusFor(app.deps.Catalog.GetDevice(c))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBasketHTTP_AddDevice(t *testing.T) {
	app := newTestApp(t)
	u := testutil.CreateUser(t, app.db, "alice", "secret", models.RoleCustomer)
	d := testutil.CreateDevice(t, app.db, "Pixel", "100")

	c, _ := newContext(app.e, http.MethodPost, "/basket/add", `{"device_id":1,"quantity":1}`)
	status, _ := statusFor(app.deps.Basket.AddDevice(c))
	assert.Equal(t, http.StatusUnauthorized, status)

	c, rec := newContext(app.e, http.MethodPost, "/basket/add", `{"device_id":1,"quantity":2}`)
	c.Set(auth.ContextKeyUserID, u.ID)
	require.NoError(t, app.deps.Basket.AddDevice(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"device added to basket"}`, rec.Body.String())

	c, _ = newContext(app.e, http.MethodPost, "/basket/add", `{"device_id":1,"quantity":-1}`)
	c.Set(auth.ContextKeyUserID, u.ID)
	status, _ = statusFor(app.deps.Basket.AddDevice(c))
	assert.Equal(t, http.StatusBadRequest, status)

	var line models.BasketLine
	require.NoError(t, app.db.Where("device_id = ?", d.ID).First(&line).Error)
	assert.EqualValues(t, 2, line.Quantity)
}
