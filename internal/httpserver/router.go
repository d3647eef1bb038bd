package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/techstore/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/techstore/internal/middleware/logging"
)

type Deps struct {
	Catalog *CatalogHTTP
	Auth    *AuthHTTP
	Basket  *BasketHTTP
	AuthMW  *auth.Middleware
	// Ready reports whether the service can take traffic.
	Ready func(ctx context.Context) error
}

// NewEcho returns an echo instance with the shared middleware stack,
// validator and error handler installed.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(loggingmw.RequestLogger(logger))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	admin := d.AuthMW.RequireAdmin
	authed := d.AuthMW.RequireAuth

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/refresh", d.Auth.Refresh)
	e.POST("/logout", d.Auth.Logout)
	e.GET("/me", d.Auth.Me, authed)

	types := e.Group("/types")
	types.GET("", d.Catalog.ListTypes)
	types.POST("", d.Catalog.CreateType, admin)
	types.GET("/:id", d.Catalog.GetType)
	types.PUT("/:id", d.Catalog.UpdateType, admin)
	types.PATCH("/:id", d.Catalog.UpdateType, admin)
	types.DELETE("/:id", d.Catalog.DeleteType, admin)

	brands := e.Group("/brands")
	brands.GET("", d.Catalog.ListBrands)
	brands.POST("", d.Catalog.CreateBrand, admin)
	brands.GET("/:id", d.Catalog.GetBrand)
	brands.PUT("/:id", d.Catalog.UpdateBrand, admin)
	brands.PATCH("/:id", d.Catalog.UpdateBrand, admin)
	brands.DELETE("/:id", d.Catalog.DeleteBrand, admin)

	devices := e.Group("/devices")
	devices.GET("", d.Catalog.ListDevices)
	devices.POST("", d.Catalog.CreateDevice, admin)
	devices.GET("/search", d.Catalog.SearchDevices)
	devices.GET("/:id", d.Catalog.GetDevice)
	devices.PUT("/:id", d.Catalog.ReplaceDevice, admin)
	devices.PATCH("/:id", d.Catalog.PatchDevice, admin)
	devices.DELETE("/:id", d.Catalog.DeleteDevice, admin)

	basket := e.Group("/basket", authed)
	basket.GET("", d.Basket.GetBasket)
	basket.POST("/add", d.Basket.AddDevice)
	basket.DELETE("/remove/:basket_device_id", d.Basket.RemoveDevice)
}
