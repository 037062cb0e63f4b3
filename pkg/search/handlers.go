package search

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/booknotes/pkg/models"
)

const sortCookieName = "sort"

type handler struct {
	searchService *Service
	cookieMaxAge  time.Duration
}

func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()
	sort := sortFromCookie(c)

	rows, err := h.searchService.List(ctx, sort)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "index.html", ListingData{
		Sort:        sort,
		SortColumns: models.SortColumns,
		Rows:        rows,
	}))
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sort := sortFromCookie(c)
	query, err := normalizeQuery(params.term())
	if err != nil {
		return errors.WithStack(err)
	}
	rows, err := h.searchService.Search(ctx, query, sort)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Render(http.StatusOK, "index.html", ListingData{
		Search:      query,
		Sort:        sort,
		SortColumns: models.SortColumns,
		Rows:        rows,
	}))
}

func (h *handler) order(c echo.Context) error {
	params := OrderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sort, err := SortFor(params.Sort)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     sortCookieName,
		Value:    string(sort.Column),
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.FromContext(c.Request().Context()).Debug("sort changed", logger.Data{"sort": sort.String()})

	return errors.WithStack(c.Redirect(http.StatusFound, "/"))
}

// sortFromCookie falls back to the default sort when the cookie is missing or
// names a column that isn't allowed.
func sortFromCookie(c echo.Context) models.Sort {
	cookie, err := c.Cookie(sortCookieName)
	if err != nil {
		return DefaultSort()
	}
	sort, err := SortFor(cookie.Value)
	if err != nil {
		return DefaultSort()
	}
	return sort
}
