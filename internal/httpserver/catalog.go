package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListTypes(c echo.Context) error {
	types, err := h.Svc.ListTypes(c.Request().Context())
	if err != nil {
		return fail(c, "list_types_error", err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *CatalogHTTP) GetType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "get_type_error", err)
	}
	t, err := h.Svc.GetType(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_type_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *CatalogHTTP) CreateType(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_type")

	var req transport.NameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "create_type_error", err)
	}
	t, err := h.Svc.CreateType(ctx, req.Name)
	if err != nil {
		return fail(c, "create_type_error", err)
	}

	l.Info("create_type_success", "type_id", t.ID)
	return c.JSON(http.StatusCreated, t)
}

// UpdateType serves both PUT and PATCH; name is the only field.
func (h *CatalogHTTP) UpdateType(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "update_type_error", err)
	}
	var req transport.NameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "update_type_error", err)
	}
	t, err := h.Svc.UpdateType(ctx, id, req.Name)
	if err != nil {
		return fail(c, "update_type_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *CatalogHTTP) DeleteType(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_type")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "delete_type_error", err)
	}
	if err := h.Svc.DeleteType(ctx, id); err != nil {
		return fail(c, "delete_type_error", err)
	}

	l.Info("delete_type_success", "type_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListBrands(c echo.Context) error {
	brands, err := h.Svc.ListBrands(c.Request().Context())
	if err != nil {
		return fail(c, "list_brands_error", err)
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *CatalogHTTP) GetBrand(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "get_brand_error", err)
	}
	b, err := h.Svc.GetBrand(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_brand_error", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_brand")

	var req transport.NameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "create_brand_error", err)
	}
	b, err := h.Svc.CreateBrand(ctx, req.Name)
	if err != nil {
		return fail(c, "create_brand_error", err)
	}

	l.Info("create_brand_success", "brand_id", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *CatalogHTTP) UpdateBrand(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "update_brand_error", err)
	}
	var req transport.NameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "update_brand_error", err)
	}
	b, err := h.Svc.UpdateBrand(ctx, id, req.Name)
	if err != nil {
		return fail(c, "update_brand_error", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) DeleteBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_brand")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "delete_brand_error", err)
	}
	if err := h.Svc.DeleteBrand(ctx, id); err != nil {
		return fail(c, "delete_brand_error", err)
	}

	l.Info("delete_brand_success", "brand_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListDevices(c echo.Context) error {
	var (
		f   repo.DeviceFilter
		err error
	)
	if f.TypeID, err = optionalID(c, "type_id"); err != nil {
		return fail(c, "list_devices_error", err)
	}
	if f.BrandID, err = optionalID(c, "brand_id"); err != nil {
		return fail(c, "list_devices_error", err)
	}

	devices, err := h.Svc.ListDevices(c.Request().Context(), f)
	if err != nil {
		return fail(c, "list_devices_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDeviceList(devices))
}

func (h *CatalogHTTP) GetDevice(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "get_device_error", err)
	}
	d, err := h.Svc.GetDevice(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_device_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDeviceResponse(d))
}

func (h *CatalogHTTP) CreateDevice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_device")

	var req transport.DeviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "create_device_error", err)
	}
	d, err := h.Svc.CreateDevice(ctx, req)
	if err != nil {
		return fail(c, "create_device_error", err)
	}

	l.Info("create_device_success", "device_id", d.ID)
	return c.JSON(http.StatusCreated, transport.NewDeviceResponse(d))
}

func (h *CatalogHTTP) ReplaceDevice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "replace_device_error", err)
	}
	var req transport.DeviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "replace_device_error", err)
	}
	d, err := h.Svc.ReplaceDevice(ctx, id, req)
	if err != nil {
		return fail(c, "replace_device_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDeviceResponse(d))
}

func (h *CatalogHTTP) PatchDevice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "patch_device_error", err)
	}
	var req transport.PatchDeviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "patch_device_error", err)
	}
	d, err := h.Svc.PatchDevice(ctx, id, req)
	if err != nil {
		return fail(c, "patch_device_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDeviceResponse(d))
}

func (h *CatalogHTTP) DeleteDevice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_device")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, "delete_device_error", err)
	}
	if err := h.Svc.DeleteDevice(ctx, id); err != nil {
		return fail(c, "delete_device_error", err)
	}

	l.Info("delete_device_success", "device_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) SearchDevices(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	if page > util.MaxPage {
		return fail(c, "search_devices_error", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("page must be at most %d", util.MaxPage)))
	}
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, devices, err := h.Svc.SearchDevices(c.Request().Context(), c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(c, "search_devices_error", err)
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{
		Total:   total,
		Devices: transport.NewDeviceList(devices),
		Page:    page,
		Size:    limit,
	})
}
