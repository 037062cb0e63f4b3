package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// Not unique: find-or-create keeps duplicates out, the schema doesn't.
		_, err := db.Exec(`CREATE INDEX ix_books_title_author_cover_id ON books (title, author, cover_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP INDEX IF EXISTS ix_books_title_author_cover_id")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
