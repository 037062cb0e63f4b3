// Package catalog looks books up in the Open Library search API so a new
// review can start from a real title, author and cover.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/shishobooks/booknotes/pkg/version"
	"golang.org/x/time/rate"
)

const (
	unknownAuthor = "Unknown"
	// coverSize is the Open Library size code for the small thumbnail.
	coverSize = "S"
)

type Status string

const (
	StatusFound  Status = "found"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Candidate is one book the catalog suggested.
type Candidate struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverID  *int   `json:"cover_id"`
	CoverURL string `json:"cover_url,omitempty"`
}

// Result is the outcome of a search. Candidates is only populated when Status
// is StatusFound, and Err only when it's StatusFailed.
type Result struct {
	Status     Status
	Candidates []Candidate
	Err        error
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	CoverI     *int     `json:"cover_i"`
}

type Client struct {
	baseURL  string
	coverURL string
	limit    int
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient builds a client from config. A non-positive request rate turns
// throttling off.
func NewClient(cfg *config.Config) *Client {
	limit := rate.Inf
	if cfg.CatalogRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.CatalogRequestsPerSecond)
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.CatalogBaseURL, "/"),
		coverURL: cfg.CatalogCoverURL,
		limit:    cfg.CatalogResultLimit,
		http: &http.Client{
			Timeout: cfg.CatalogTimeout,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// CoverURL returns the small cover image URL for a cover ID.
func (cl *Client) CoverURL(coverID int) string {
	return FormatCoverURL(cl.coverURL, coverID)
}

// FormatCoverURL fills a cover URL template that takes the cover ID and the
// size code.
func FormatCoverURL(template string, coverID int) string {
	return fmt.Sprintf(template, coverID, coverSize)
}

// Search asks the catalog for books matching query. Failures are reported on
// the Result rather than returned.
func (cl *Client) Search(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Status: StatusEmpty}
	}

	docs, err := cl.fetch(ctx, query)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	if len(docs) == 0 {
		return Result{Status: StatusEmpty}
	}

	candidates := make([]Candidate, 0, len(docs))
	for _, doc := range docs {
		candidate := Candidate{
			Title:   doc.Title,
			Author:  unknownAuthor,
			CoverID: doc.CoverI,
		}
		if len(doc.AuthorName) > 0 && strings.TrimSpace(doc.AuthorName[0]) != "" {
			candidate.Author = doc.AuthorName[0]
		}
		if doc.CoverI != nil {
			candidate.CoverURL = cl.CoverURL(*doc.CoverI)
		}
		candidates = append(candidates, candidate)
	}

	return Result{Status: StatusFound, Candidates: candidates}
}

func (cl *Client) fetch(ctx context.Context, query string) ([]searchDoc, error) {
	if err := cl.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for catalog rate limit")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "title,author_name,cover_i")
	if cl.limit > 0 {
		params.Set("limit", strconv.Itoa(cl.limit))
	}
	target := cl.baseURL + "/search.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := cl.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "requesting catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decoding catalog response")
	}

	return body.Docs, nil
}
