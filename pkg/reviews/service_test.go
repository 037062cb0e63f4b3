package reviews

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/booknotes/pkg/errcodes"
	"github.com/shishobooks/booknotes/pkg/models"
	"github.com/shishobooks/booknotes/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func countBooks(ctx context.Context, t *testing.T, db bun.IDB) int {
	t.Helper()
	count, err := db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	require.NoError(t, err)
	return count
}

func countReviews(ctx context.Context, t *testing.T, db bun.IDB) int {
	t.Helper()
	count, err := db.NewSelect().Model((*models.Review)(nil)).Count(ctx)
	require.NoError(t, err)
	return count
}

func addDune(ctx context.Context, t *testing.T, svc *Service) *models.Review {
	t.Helper()
	review, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "Dune",
		Author:     "Frank Herbert",
		CoverID:    pointerutil.Int(12345),
		ReviewText: "Great",
		Rating:     pointerutil.Int(5),
	})
	require.NoError(t, err)
	return review
}

func TestAddReview_NewBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	review := addDune(ctx, t, svc)
	assert.NotZero(t, review.ID)
	assert.NotZero(t, review.BookID)
	assert.Nil(t, review.ReviewDate)

	book, err := svc.RetrieveBook(ctx, review.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	require.NotNil(t, book.CoverID)
	assert.Equal(t, 12345, *book.CoverID)
	require.Len(t, book.Reviews, 1)
	assert.Equal(t, "Great", book.Reviews[0].ReviewText)
	assert.Equal(t, 5, book.Reviews[0].Rating)
	assert.Nil(t, book.Reviews[0].ReviewDate)
}

func TestAddReview_ReusesExistingBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	first := addDune(ctx, t, svc)
	second, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "  Dune ",
		Author:     "Frank Herbert",
		CoverID:    pointerutil.Int(12345),
		ReviewText: "Even better the second time",
		Rating:     pointerutil.Int(4),
	})
	require.NoError(t, err)

	assert.Equal(t, first.BookID, second.BookID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, countBooks(ctx, t, db))
	assert.Equal(t, 2, countReviews(ctx, t, db))
}

func TestAddReview_ReusesBookWithoutCover(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	opts := AddReviewOptions{
		Title:      "Piranesi",
		Author:     "Susanna Clarke",
		ReviewText: "Strange and lovely",
		Rating:     pointerutil.Int(5),
	}
	first, err := svc.AddReview(ctx, opts)
	require.NoError(t, err)

	// A zero cover is the same as no cover.
	opts.CoverID = pointerutil.Int(0)
	second, err := svc.AddReview(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, first.BookID, second.BookID)
	assert.Equal(t, 1, countBooks(ctx, t, db))
}

func TestAddReview_DifferentCoverCreatesNewBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	first := addDune(ctx, t, svc)
	second, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "Dune",
		Author:     "Frank Herbert",
		CoverID:    pointerutil.Int(999),
		ReviewText: "Other edition",
		Rating:     pointerutil.Int(3),
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.BookID, second.BookID)
	assert.Equal(t, 2, countBooks(ctx, t, db))
}

func TestAddReview_StripsHTML(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	review, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "Dune",
		Author:     "Frank Herbert",
		ReviewText: "<p>Loved <b>it</b></p><script>alert(1)</script>",
		Rating:     pointerutil.Int(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Loved it", review.ReviewText)
}

func TestAddReview_Validation(t *testing.T) {
	t.Parallel()

	valid := AddReviewOptions{
		Title:      "Dune",
		Author:     "Frank Herbert",
		ReviewText: "Great",
		Rating:     pointerutil.Int(5),
	}

	tests := []struct {
		name    string
		modify  func(opts *AddReviewOptions)
		message string
	}{
		{
			name:    "blank title",
			modify:  func(opts *AddReviewOptions) { opts.Title = "   " },
			message: `"title" is required`,
		},
		{
			name:    "blank author",
			modify:  func(opts *AddReviewOptions) { opts.Author = "" },
			message: `"author" is required`,
		},
		{
			name:    "blank review text",
			modify:  func(opts *AddReviewOptions) { opts.ReviewText = "  " },
			message: `"review_text" is required`,
		},
		{
			name:    "review text with only markup",
			modify:  func(opts *AddReviewOptions) { opts.ReviewText = "<p></p>" },
			message: `"review_text" is required`,
		},
		{
			name:    "missing rating",
			modify:  func(opts *AddReviewOptions) { opts.Rating = nil },
			message: `"rating" is required`,
		},
		{
			name:    "rating too high",
			modify:  func(opts *AddReviewOptions) { opts.Rating = pointerutil.Int(6) },
			message: `"rating" must be between 1 and 5`,
		},
		{
			name:    "rating too low",
			modify:  func(opts *AddReviewOptions) { opts.Rating = pointerutil.Int(0) },
			message: `"rating" must be between 1 and 5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			db := testutils.NewDB(t)
			svc := NewService(db)

			opts := valid
			tt.modify(&opts)
			_, err := svc.AddReview(ctx, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, errcodes.ValidationError(tt.message))
			assert.Zero(t, countBooks(ctx, t, db))
		})
	}
}

func TestAddReview_RollsBackOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	testutils.FailReviewInserts(t, db)

	_, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "Dune",
		Author:     "Frank Herbert",
		CoverID:    pointerutil.Int(12345),
		ReviewText: "Great",
		Rating:     pointerutil.Int(5),
	})
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "operation_failed", e.Code)
	assert.Equal(t, http.StatusBadRequest, e.HTTPCode)

	// The book insert ran before the failure and must have been undone.
	assert.Zero(t, countBooks(ctx, t, db))
	assert.Zero(t, countReviews(ctx, t, db))
}

func TestAmendReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	original := addDune(ctx, t, svc)

	amended, err := svc.AmendReview(ctx, AmendReviewOptions{
		BookID:     original.BookID,
		ReviewText: " Still great ",
		Rating:     pointerutil.Int(4),
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, amended.ID)
	assert.Equal(t, original.BookID, amended.BookID)
	assert.Equal(t, "Still great", amended.ReviewText)
	assert.Equal(t, 4, amended.Rating)
	require.NotNil(t, amended.ReviewDate)
	assert.WithinDuration(t, fixed, *amended.ReviewDate, time.Second)

	assert.Equal(t, 1, countBooks(ctx, t, db))
	assert.Equal(t, 1, countReviews(ctx, t, db))
}

func TestAmendReview_NoReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	_, err := svc.AmendReview(ctx, AmendReviewOptions{
		BookID:     42,
		ReviewText: "Nothing to amend",
		Rating:     pointerutil.Int(3),
	})
	assert.ErrorIs(t, err, errcodes.NotFound("Review"))
}

func TestAmendReview_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	_, err := svc.AmendReview(ctx, AmendReviewOptions{ReviewText: "Text", Rating: pointerutil.Int(3)})
	assert.ErrorIs(t, err, errcodes.ValidationError(`"bookId" is required`))

	_, err = svc.AmendReview(ctx, AmendReviewOptions{BookID: 1, Rating: pointerutil.Int(3)})
	assert.ErrorIs(t, err, errcodes.ValidationError(`"review_text" is required`))

	_, err = svc.AmendReview(ctx, AmendReviewOptions{BookID: 1, ReviewText: "Text"})
	assert.ErrorIs(t, err, errcodes.ValidationError(`"rating" is required`))
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	review := addDune(ctx, t, svc)
	_, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "Dune",
		Author:     "Frank Herbert",
		CoverID:    pointerutil.Int(12345),
		ReviewText: "Second read",
		Rating:     pointerutil.Int(4),
	})
	require.NoError(t, err)
	other, err := svc.AddReview(ctx, AddReviewOptions{
		Title:      "Emma",
		Author:     "Jane Austen",
		ReviewText: "Witty",
		Rating:     pointerutil.Int(4),
	})
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, review.BookID)
	require.NoError(t, err)

	_, err = svc.RetrieveBook(ctx, review.BookID)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))

	count, err := db.NewSelect().
		Model((*models.Review)(nil)).
		Where("book_id = ?", review.BookID).
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other books are untouched.
	book, err := svc.RetrieveBook(ctx, other.BookID)
	require.NoError(t, err)
	assert.Len(t, book.Reviews, 1)
}

func TestDeleteBook_Unknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	err := svc.DeleteBook(ctx, 42)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestDeleteBook_RollsBackOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	review := addDune(ctx, t, svc)
	testutils.FailBookDeletes(t, db)

	err := svc.DeleteBook(ctx, review.BookID)
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPCode)

	// The review delete ran first and must have been undone.
	assert.Equal(t, 1, countBooks(ctx, t, db))
	assert.Equal(t, 1, countReviews(ctx, t, db))
}

func TestFindReviewByTitle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	review := addDune(ctx, t, svc)

	row, err := svc.FindReviewByTitle(ctx, "Dune")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, review.ID, row.ReviewID)
	assert.Equal(t, review.BookID, row.BookID)
	assert.Equal(t, "Great", row.ReviewText)

	row, err = svc.FindReviewByTitle(ctx, "Emma")
	require.NoError(t, err)
	assert.Nil(t, row)

	row, err = svc.FindReviewByTitle(ctx, "  ")
	require.NoError(t, err)
	assert.Nil(t, row)
}
