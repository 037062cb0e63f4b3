package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/booknotes/pkg/binder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandlerSearch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs": [{"title": "Dune", "author_name": ["Frank Herbert"], "cover_i": 12345}]}`))
	})
	h := &handler{client: client}

	c, rr := newCatalogTestContext(t, "/catalog/search?q=dune")
	err := h.search(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Dune", resp.Candidates[0].Title)
	assert.Equal(t, "Frank Herbert", resp.Candidates[0].Author)
}

func TestHandlerSearch_FailureIsEmptyList(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := &handler{client: client}

	c, rr := newCatalogTestContext(t, "/catalog/search?q=dune")
	err := h.search(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"candidates": []}`, rr.Body.String())
}

func TestHandlerSearch_BlankQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("catalog should not be called for a blank query")
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := &handler{client: client}

	c, rr := newCatalogTestContext(t, "/catalog/search")
	err := h.search(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"candidates": []}`, rr.Body.String())
}
