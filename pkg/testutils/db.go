// Package testutils holds helpers shared by package tests.
package testutils

import (
	"context"
	"testing"

	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/shishobooks/booknotes/pkg/database"
	"github.com/shishobooks/booknotes/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewDB returns a migrated in-memory database that is closed when the test
// finishes. Every call gets its own database.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return db
}

// FailReviewInserts makes every subsequent insert into book_reviews abort,
// which lets tests break a transaction after its first statement succeeded.
func FailReviewInserts(t *testing.T, db *bun.DB) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), `
		CREATE TRIGGER fail_review_inserts BEFORE INSERT ON book_reviews
		BEGIN
			SELECT RAISE(ABORT, 'review inserts disabled');
		END;
	`)
	require.NoError(t, err)
}

// FailBookDeletes does the same for deletes from books.
func FailBookDeletes(t *testing.T, db *bun.DB) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), `
		CREATE TRIGGER fail_book_deletes BEFORE DELETE ON books
		BEGIN
			SELECT RAISE(ABORT, 'book deletes disabled');
		END;
	`)
	require.NoError(t, err)
}
