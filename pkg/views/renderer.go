// Package views renders the server-side pages and serves the widget assets.
package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/booknotes/pkg/catalog"
	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/shishobooks/booknotes/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages are the templates handlers can render. Each is parsed together with
// the shared layout.
var pages = []string{"index.html", "book.html"}

// Renderer is an echo.Renderer over the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(cfg *config.Config) (*Renderer, error) {
	funcs := template.FuncMap{
		"coverURL": func(coverID *int) string {
			if coverID == nil {
				return ""
			}
			return catalog.FormatCoverURL(cfg.CatalogCoverURL, *coverID)
		},
		"stars":      stars,
		"formatDate": formatDate,
		"sortLabel":  sortLabel,
		"ratings":    ratings,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).
			Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", page)
		}
		templates[page] = t
	}

	return &Renderer{templates}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return errors.WithStack(t.ExecuteTemplate(w, "layout", data))
}

// StaticFS holds the browser assets, rooted so they can be served under
// /static.
func StaticFS() fs.FS {
	return echo.MustSubFS(staticFS, "static")
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > models.MaxRating {
		rating = models.MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", models.MaxRating-rating)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// sortLabel turns a column like review_date into "Review date".
func sortLabel(col models.SortColumn) string {
	label := strings.ReplaceAll(string(col), "_", " ")
	label = strings.Replace(label, " id", " ID", 1)
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func ratings() []int {
	r := make([]int, 0, models.MaxRating-models.MinRating+1)
	for i := models.MaxRating; i >= models.MinRating; i-- {
		r = append(r, i)
	}
	return r
}
