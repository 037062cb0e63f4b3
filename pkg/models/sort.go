package models

import "strings"

type SortColumn string

const (
	SortReviewID   SortColumn = "review_id"
	SortBookID     SortColumn = "book_id"
	SortTitle      SortColumn = "title"
	SortAuthor     SortColumn = "author"
	SortRating     SortColumn = "rating"
	SortReviewDate SortColumn = "review_date"
)

// SortColumns is the allow-list of columns the listing can be ordered by, in
// the order they're offered to the user.
var SortColumns = []SortColumn{
	SortReviewID,
	SortTitle,
	SortAuthor,
	SortRating,
	SortReviewDate,
	SortBookID,
}

func (c SortColumn) Valid() bool {
	for _, col := range SortColumns {
		if c == col {
			return true
		}
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// Sort is the (column, direction) pair a listing is ordered by.
type Sort struct {
	Column    SortColumn
	Direction SortDirection
}

func (s Sort) String() string {
	return string(s.Column) + " " + strings.ToLower(string(s.Direction))
}
