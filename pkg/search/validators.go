package search

import "github.com/shishobooks/booknotes/pkg/models"

// SearchQuery accepts the search term as q, search or title, checked in that
// order.
type SearchQuery struct {
	Q      string `query:"q" json:"q"`
	Search string `query:"search" json:"search"`
	Title  string `query:"title" json:"title"`
}

func (q SearchQuery) term() string {
	for _, s := range []string{q.Q, q.Search, q.Title} {
		if s != "" {
			return s
		}
	}
	return ""
}

type OrderPayload struct {
	Sort string `form:"sort" json:"sort" mod:"trim" validate:"required"`
}

// ListingData feeds the index template.
type ListingData struct {
	Search      string
	Sort        models.Sort
	SortColumns []models.SortColumn
	Rows        []*models.ListingRow
}
