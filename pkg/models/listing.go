package models

import "time"

// ListingRow is one (book, review) pair from the books/book_reviews join.
type ListingRow struct {
	BookID     int        `bun:"book_id" json:"book_id"`
	Title      string     `bun:"title" json:"title"`
	Author     string     `bun:"author" json:"author"`
	CoverID    *int       `bun:"cover_id" json:"cover_id"`
	ReviewID   int        `bun:"review_id" json:"review_id"`
	ReviewText string     `bun:"review_text" json:"review_text"`
	Rating     int        `bun:"rating" json:"rating"`
	ReviewDate *time.Time `bun:"review_date" json:"review_date"`
}
