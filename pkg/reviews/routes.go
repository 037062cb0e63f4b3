package reviews

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	reviewService := NewService(db)

	h := &handler{
		reviewService: reviewService,
	}

	e.GET("/book", h.bookForm)
	e.POST("/add", h.add)
	e.POST("/amendReview", h.amend)
	e.DELETE("/delete/:id", h.deleteBook)
}
