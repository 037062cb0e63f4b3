package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/booknotes/pkg/errcodes"
	"github.com/shishobooks/booknotes/pkg/htmlutil"
	"github.com/shishobooks/booknotes/pkg/models"
	"github.com/uptrace/bun"
)

type AddReviewOptions struct {
	Title      string
	Author     string
	CoverID    *int
	ReviewText string
	Rating     *int
}

type AmendReviewOptions struct {
	BookID     int
	ReviewText string
	Rating     *int
}

type Service struct {
	db *bun.DB
	// now is swapped out by tests that need a fixed review date.
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db, time.Now}
}

// AddReview records a review, creating the book first unless one with the
// same title, author and cover already exists. Nothing is written if any step
// fails.
func (svc *Service) AddReview(ctx context.Context, opts AddReviewOptions) (*models.Review, error) {
	title := strings.TrimSpace(opts.Title)
	author := strings.TrimSpace(opts.Author)
	text := htmlutil.StripTags(strings.TrimSpace(opts.ReviewText))

	if title == "" {
		return nil, errcodes.ValidationError(`"title" is required`)
	}
	if author == "" {
		return nil, errcodes.ValidationError(`"author" is required`)
	}
	if text == "" {
		return nil, errcodes.ValidationError(`"review_text" is required`)
	}
	if err := validateRating(opts.Rating); err != nil {
		return nil, err
	}

	coverID := opts.CoverID
	if coverID != nil && *coverID <= 0 {
		coverID = nil
	}

	review := &models.Review{
		ReviewText: text,
		Rating:     *opts.Rating,
	}
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		book, err := FindBook(ctx, tx, title, author, coverID)
		if err != nil {
			return err
		}
		if book == nil {
			book = &models.Book{
				Title:   title,
				Author:  author,
				CoverID: coverID,
			}
			if err := InsertBook(ctx, tx, book); err != nil {
				return err
			}
		}

		review.BookID = book.ID
		return InsertReview(ctx, tx, review)
	})
	if err != nil {
		return nil, errcodes.OperationFailed("Failed to add review.", http.StatusBadRequest, err)
	}

	return review, nil
}

// AmendReview rewrites the review of the given book and stamps it with the
// current date. Books are assumed to have a single review, so every review of
// the book is updated.
func (svc *Service) AmendReview(ctx context.Context, opts AmendReviewOptions) (*models.Review, error) {
	text := htmlutil.StripTags(strings.TrimSpace(opts.ReviewText))

	if opts.BookID <= 0 {
		return nil, errcodes.ValidationError(`"bookId" is required`)
	}
	if text == "" {
		return nil, errcodes.ValidationError(`"review_text" is required`)
	}
	if err := validateRating(opts.Rating); err != nil {
		return nil, err
	}

	var review *models.Review
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		review, err = UpdateReview(ctx, tx, opts.BookID, text, *opts.Rating, svc.now())
		return err
	})
	if err != nil {
		return nil, errcodes.OperationFailed("Failed to amend review.", http.StatusBadRequest, err)
	}
	if review == nil {
		return nil, errcodes.NotFound("Review")
	}

	return review, nil
}

// DeleteBook removes the book and all of its reviews.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	deleted, err := DeleteBookAndReviews(ctx, svc.db, bookID)
	if err != nil {
		return errcodes.OperationFailed("Failed to delete book.", http.StatusInternalServerError, err)
	}
	if !deleted {
		return errcodes.NotFound("Book")
	}
	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, bookID int) (*models.Book, error) {
	book, err := RetrieveBook(ctx, svc.db, bookID)
	return book, errors.WithStack(err)
}

func (svc *Service) FindReviewByTitle(ctx context.Context, title string) (*models.ListingRow, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	return FindReviewByTitle(ctx, svc.db, title)
}

func validateRating(rating *int) error {
	if rating == nil {
		return errcodes.ValidationError(`"rating" is required`)
	}
	if *rating < models.MinRating || *rating > models.MaxRating {
		return errcodes.ValidationError(fmt.Sprintf(`"rating" must be between %d and %d`, models.MinRating, models.MaxRating))
	}
	return nil
}
