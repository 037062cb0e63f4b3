package catalog

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, client *Client) {
	h := &handler{
		client: client,
	}

	g := e.Group("/catalog")
	g.GET("/search", h.search)
}
