package reviews

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/booknotes/pkg/errcodes"
	"github.com/shishobooks/booknotes/pkg/models"
)

type handler struct {
	reviewService *Service
}

func (h *handler) bookForm(c echo.Context) error {
	ctx := c.Request().Context()

	params := BookFormQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.BookID != nil {
		book, err := h.reviewService.RetrieveBook(ctx, *params.BookID)
		if err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(c.Render(http.StatusOK, "book.html", bookFormDataFor(book)))
	}

	data := BookFormData{
		Title:   params.Title,
		Author:  params.Author,
		CoverID: params.coverID(),
	}

	existing, err := h.reviewService.FindReviewByTitle(ctx, params.Title)
	if err != nil {
		return errors.WithStack(err)
	}
	if existing != nil {
		data.Existing = &ExistingReview{
			BookID:     existing.BookID,
			ReviewText: existing.ReviewText,
			Rating:     existing.Rating,
		}
	}

	return errors.WithStack(c.Render(http.StatusOK, "book.html", data))
}

// bookFormDataFor fills the form from a stored book. A book without a review
// gets the add form, prefilled with its title, author and cover.
func bookFormDataFor(book *models.Book) BookFormData {
	data := BookFormData{
		Title:   book.Title,
		Author:  book.Author,
		CoverID: book.CoverID,
	}
	if len(book.Reviews) > 0 {
		review := book.Reviews[0]
		data.Existing = &ExistingReview{
			BookID:     book.ID,
			ReviewText: review.ReviewText,
			Rating:     review.Rating,
		}
	}
	return data
}

func (h *handler) add(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.reviewService.AddReview(ctx, AddReviewOptions{
		Title:      params.Title,
		Author:     params.Author,
		CoverID:    params.CoverID,
		ReviewText: params.ReviewText,
		Rating:     params.Rating,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("review added", logger.Data{
		"book_id":   review.BookID,
		"review_id": review.ID,
	})

	return errors.WithStack(c.Redirect(http.StatusFound, "/"))
}

func (h *handler) amend(c echo.Context) error {
	ctx := c.Request().Context()

	params := AmendReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.reviewService.AmendReview(ctx, AmendReviewOptions{
		BookID:     params.BookID,
		ReviewText: params.ReviewText,
		Rating:     params.Rating,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("review amended", logger.Data{
		"book_id":   review.BookID,
		"review_id": review.ID,
	})

	return errors.WithStack(c.Redirect(http.StatusFound, "/"))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.reviewService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book deleted", logger.Data{"book_id": id})

	return errors.WithStack(c.String(http.StatusOK, "Review deleted successfully."))
}
