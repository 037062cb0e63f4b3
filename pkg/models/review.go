package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	bun.BaseModel `bun:"table:book_reviews,alias:r"`

	ID         int        `bun:"review_id,pk,nullzero" json:"review_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     int        `bun:",notnull" json:"book_id"`
	ReviewText string     `bun:",notnull" json:"review_text"`
	Rating     int        `bun:",notnull" json:"rating"`
	ReviewDate *time.Time `json:"review_date"`
}
