package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
)

type BasketHTTP struct {
	Svc *service.BasketService
}

func (h *BasketHTTP) GetBasket(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, "get_basket_error", err)
	}

	basket, err := h.Svc.GetBasket(c.Request().Context(), userID)
	if err != nil {
		return fail(c, "get_basket_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewBasketResponse(basket))
}

func (h *BasketHTTP) AddDevice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "basket.add_device")

	userID, err := currentUser(c)
	if err != nil {
		return fail(c, "add_device_error", err)
	}

	var req transport.AddDeviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, "add_device_error", err)
	}

	line, err := h.Svc.AddDevice(ctx, userID, req.DeviceID, req.Quantity)
	if err != nil {
		return fail(c, "add_device_error", err)
	}

	l.Info("device_added", "device_id", req.DeviceID, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "device added to basket"})
}

func (h *BasketHTTP) RemoveDevice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "basket.remove_device")

	userID, err := currentUser(c)
	if err != nil {
		return fail(c, "remove_device_error", err)
	}
	lineID, err := parseID(c, "basket_device_id")
	if err != nil {
		return fail(c, "remove_device_error", fmt.Errorf("%w: device not found in your basket", service.ErrNotFound))
	}

	if err := h.Svc.RemoveLine(ctx, userID, lineID); err != nil {
		return fail(c, "remove_device_error", err)
	}

	l.Info("device_removed", "basket_device_id", lineID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "device removed from basket"})
}
