package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/booknotes/pkg/textfold"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		for _, stmt := range []string{
			`ALTER TABLE books ADD COLUMN title_fold TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE books ADD COLUMN author_fold TEXT NOT NULL DEFAULT ''`,
		} {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return backfillBookFolds(ctx, db)
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, stmt := range []string{
			`ALTER TABLE books DROP COLUMN author_fold`,
			`ALTER TABLE books DROP COLUMN title_fold`,
		} {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}

// backfillBookFolds fills in the folded title and author of existing books.
// SQLite's lower() only knows ASCII, so the folding happens in Go.
func backfillBookFolds(ctx context.Context, db bun.IDB) error {
	var books []struct {
		BookID int    `bun:"book_id"`
		Title  string `bun:"title"`
		Author string `bun:"author"`
	}
	err := db.NewRaw("SELECT book_id, title, author FROM books").Scan(ctx, &books)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, b := range books {
		_, err := db.NewRaw(
			"UPDATE books SET title_fold = ?, author_fold = ? WHERE book_id = ?",
			textfold.String(b.Title), textfold.String(b.Author), b.BookID,
		).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
