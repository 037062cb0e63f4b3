package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type SearchQuery struct {
	Query string `query:"q" json:"q" mod:"trim" validate:"max=200"`
}

type SearchResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type handler struct {
	client *Client
}

// search always answers 200 so the widget can treat a catalog outage like an
// empty result.
func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result := h.client.Search(ctx, params.Query)
	response := SearchResponse{Candidates: []Candidate{}}

	switch result.Status {
	case StatusFound:
		response.Candidates = result.Candidates
	case StatusFailed:
		logger.FromContext(ctx).Err(result.Err).Warn("catalog search failed", logger.Data{"query": params.Query})
	case StatusEmpty:
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
