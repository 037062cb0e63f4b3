package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:"book_id,pk,nullzero" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",notnull" json:"title"`
	Author    string    `bun:",notnull" json:"author"`
	CoverID   *int      `json:"cover_id"`
	// TitleFold and AuthorFold hold the case-folded title and author that
	// searches match against.
	TitleFold  string    `bun:",notnull" json:"-"`
	AuthorFold string    `bun:",notnull" json:"-"`
	Reviews    []*Review `bun:"rel:has-many,join:book_id=book_id" json:"reviews,omitempty"`
}
