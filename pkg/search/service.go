package search

import (
	"context"
	"fmt"

	"github.com/shishobooks/booknotes/pkg/errcodes"
	"github.com/shishobooks/booknotes/pkg/models"
	"github.com/shishobooks/booknotes/pkg/reviews"
	"github.com/uptrace/bun"
)

// defaultDirections is the rule table for picking a direction from a column.
// Ratings read best highest first; everything else reads ascending.
var defaultDirections = map[models.SortColumn]models.SortDirection{
	models.SortReviewID:   models.SortAsc,
	models.SortBookID:     models.SortAsc,
	models.SortTitle:      models.SortAsc,
	models.SortAuthor:     models.SortAsc,
	models.SortRating:     models.SortDesc,
	models.SortReviewDate: models.SortAsc,
}

// DefaultSort is used when the client hasn't picked a column.
func DefaultSort() models.Sort {
	return models.Sort{Column: models.SortReviewID, Direction: models.SortAsc}
}

// SortFor returns the sort for a column name, with the direction that column
// always uses.
func SortFor(column string) (models.Sort, error) {
	col := models.SortColumn(column)
	if !col.Valid() {
		return models.Sort{}, errcodes.ValidationError(fmt.Sprintf(`"sort" must be one of %v`, models.SortColumns))
	}
	return models.Sort{Column: col, Direction: defaultDirections[col]}, nil
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// List returns every (book, review) pair in the given order.
func (svc *Service) List(ctx context.Context, sort models.Sort) ([]*models.ListingRow, error) {
	return reviews.ListJoined(ctx, svc.db, reviews.ListJoinedOptions{Sort: sort})
}

// Search returns the pairs whose title or author contains query, ignoring
// case. A blank query matches everything and an overlong one is a
// ValidationError.
func (svc *Service) Search(ctx context.Context, query string, sort models.Sort) ([]*models.ListingRow, error) {
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return svc.List(ctx, sort)
	}
	return reviews.ListJoined(ctx, svc.db, reviews.ListJoinedOptions{
		Sort:     sort,
		Contains: &query,
	})
}
