package search

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) {
	searchService := NewService(db)

	h := &handler{
		searchService: searchService,
		cookieMaxAge:  cfg.SortCookieMaxAge,
	}

	e.GET("/", h.index)
	e.GET("/search", h.search)
	e.POST("/order", h.order)
}
