package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/booknotes/pkg/binder"
	"github.com/shishobooks/booknotes/pkg/catalog"
	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/shishobooks/booknotes/pkg/errcodes"
	"github.com/shishobooks/booknotes/pkg/reviews"
	"github.com/shishobooks/booknotes/pkg/search"
	"github.com/shishobooks/booknotes/pkg/views"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	renderer, err := views.NewRenderer(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Renderer = renderer

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)
	e.StaticFS("/static", views.StaticFS())

	search.RegisterRoutes(e, db, cfg)
	reviews.RegisterRoutes(e, db)
	catalog.RegisterRoutes(e, catalog.NewClient(cfg))

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
