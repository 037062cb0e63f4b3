package reviews

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/booknotes/pkg/errcodes"
	"github.com/shishobooks/booknotes/pkg/models"
	"github.com/shishobooks/booknotes/pkg/textfold"
	"github.com/uptrace/bun"
)

// The functions in this file are the raw store operations. They take a
// bun.IDB so callers can run them against the shared connection or inside a
// transaction. Callers holding a transaction must pass it, since the
// database only has one connection.

// sortExpressions maps every valid sort column to the SQL it orders by. Only
// values from this map ever reach ORDER BY.
var sortExpressions = map[models.SortColumn]string{
	models.SortReviewID:   "r.review_id",
	models.SortBookID:     "b.book_id",
	models.SortTitle:      "b.title",
	models.SortAuthor:     "b.author",
	models.SortRating:     "r.rating",
	models.SortReviewDate: "r.review_date",
}

var sortDirections = map[models.SortDirection]string{
	models.SortAsc:  "ASC",
	models.SortDesc: "DESC",
}

type ListJoinedOptions struct {
	Sort models.Sort
	// Contains keeps only rows whose title or author contains it, ignoring
	// case in any script. LIKE wildcards in it match literally.
	Contains *string
}

// likeEscaper escapes LIKE wildcards using '!' as the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// FindBook returns the book with exactly this title, author and cover, or nil
// when there isn't one.
func FindBook(ctx context.Context, db bun.IDB, title, author string, coverID *int) (*models.Book, error) {
	book := &models.Book{}

	q := db.NewSelect().
		Model(book).
		Where("b.title = ?", title).
		Where("b.author = ?", author).
		Order("b.book_id ASC").
		Limit(1)

	if coverID == nil {
		q = q.Where("b.cover_id IS NULL")
	} else {
		q = q.Where("b.cover_id = ?", *coverID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// RetrieveBook returns the book with the given ID along with its reviews.
func RetrieveBook(ctx context.Context, db bun.IDB, bookID int) (*models.Book, error) {
	book := &models.Book{}

	err := db.NewSelect().
		Model(book).
		Relation("Reviews", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("r.review_id ASC")
		}).
		Where("b.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// InsertBook inserts the book and sets its generated ID.
func InsertBook(ctx context.Context, db bun.IDB, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	book.TitleFold = textfold.String(book.Title)
	book.AuthorFold = textfold.String(book.Author)

	_, err := db.NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isConstraintError(err) {
			return errcodes.ConstraintViolation(err)
		}
		return errors.WithStack(err)
	}
	return nil
}

// InsertReview inserts the review and sets its generated ID. The review's
// date stays empty until it's amended.
func InsertReview(ctx context.Context, db bun.IDB, review *models.Review) error {
	now := time.Now()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = review.CreatedAt
	review.ReviewDate = nil

	_, err := db.NewInsert().
		Model(review).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isConstraintError(err) {
			return errcodes.ConstraintViolation(err)
		}
		return errors.WithStack(err)
	}
	return nil
}

// UpdateReview rewrites the text, rating and date of the book's review. It
// returns nil when the book has no review.
func UpdateReview(ctx context.Context, db bun.IDB, bookID int, text string, rating int, date time.Time) (*models.Review, error) {
	res, err := db.NewUpdate().
		Model((*models.Review)(nil)).
		Set("review_text = ?", text).
		Set("rating = ?", rating).
		Set("review_date = ?", date).
		Set("updated_at = ?", time.Now()).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		if isConstraintError(err) {
			return nil, errcodes.ConstraintViolation(err)
		}
		return nil, errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		return nil, nil
	}

	review := &models.Review{}
	err = db.NewSelect().
		Model(review).
		Where("r.book_id = ?", bookID).
		Order("r.review_id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return review, nil
}

// DeleteBookAndReviews deletes the book's reviews and then the book in one
// transaction. It reports whether the book existed.
func DeleteBookAndReviews(ctx context.Context, db bun.IDB, bookID int) (bool, error) {
	var deleted bool
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Review)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ListJoined returns every (book, review) pair ordered by opts.Sort, with
// review_id breaking ties.
func ListJoined(ctx context.Context, db bun.IDB, opts ListJoinedOptions) ([]*models.ListingRow, error) {
	if !opts.Sort.Column.Valid() {
		return nil, errcodes.ValidationError(`"sort" must be one of ` + sortColumnList())
	}
	if !opts.Sort.Direction.Valid() {
		return nil, errcodes.ValidationError(`"direction" must be one of [ASC DESC]`)
	}
	column := sortExpressions[opts.Sort.Column]
	direction := sortDirections[opts.Sort.Direction]

	rows := []*models.ListingRow{}
	q := db.NewSelect().
		ColumnExpr("b.book_id, b.title, b.author, b.cover_id").
		ColumnExpr("r.review_id, r.review_text, r.rating, r.review_date").
		TableExpr("books AS b").
		Join("JOIN book_reviews AS r ON r.book_id = b.book_id").
		OrderExpr(column + " " + direction)

	if opts.Sort.Column != models.SortReviewID {
		q = q.OrderExpr("r.review_id ASC")
	}
	if opts.Contains != nil {
		pattern := "%" + likeEscaper.Replace(textfold.String(*opts.Contains)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("b.title_fold LIKE ? ESCAPE '!'", pattern).
				WhereOr("b.author_fold LIKE ? ESCAPE '!'", pattern)
		})
	}

	err := q.Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// FindReviewByTitle returns the first review of a book with this title, or
// nil when no such book has been reviewed.
func FindReviewByTitle(ctx context.Context, db bun.IDB, title string) (*models.ListingRow, error) {
	rows := []*models.ListingRow{}
	err := db.NewSelect().
		ColumnExpr("b.book_id, b.title, b.author, b.cover_id").
		ColumnExpr("r.review_id, r.review_text, r.rating, r.review_date").
		TableExpr("books AS b").
		Join("JOIN book_reviews AS r ON r.book_id = b.book_id").
		Where("b.title = ?", title).
		OrderExpr("r.review_id ASC").
		Limit(1).
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func isConstraintError(err error) bool {
	return strings.Contains(err.Error(), "constraint failed")
}

func sortColumnList() string {
	names := make([]string, 0, len(models.SortColumns))
	for _, col := range models.SortColumns {
		names = append(names, string(col))
	}
	return "[" + strings.Join(names, " ") + "]"
}
