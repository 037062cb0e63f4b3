package reviews

// BookFormQuery is what GET /book accepts. BookID opens an existing book for
// editing; otherwise the form starts from the catalog's title, author and
// cover. The cover can be passed as either coverId or cover_id.
type BookFormQuery struct {
	BookID       *int   `query:"bookId" json:"bookId"`
	Title        string `query:"title" json:"title" mod:"trim" validate:"max=500"`
	Author       string `query:"author" json:"author" mod:"trim" validate:"max=500"`
	CoverID      *int   `query:"coverId" json:"coverId"`
	CoverIDAlias *int   `query:"cover_id" json:"cover_id"`
}

func (q BookFormQuery) coverID() *int {
	if q.CoverID != nil {
		return q.CoverID
	}
	return q.CoverIDAlias
}

// AddReviewPayload is the form posted to /add. Required fields are checked by
// Service.AddReview.
type AddReviewPayload struct {
	Title      string `form:"title" json:"title" mod:"trim" validate:"max=500"`
	Author     string `form:"author" json:"author" mod:"trim" validate:"max=500"`
	ReviewText string `form:"review_text" json:"review_text" mod:"trim" validate:"max=10000"`
	CoverID    *int   `form:"cover_id" json:"cover_id"`
	Rating     *int   `form:"rating" json:"rating"`
}

// AmendReviewPayload is the form posted to /amendReview.
type AmendReviewPayload struct {
	BookID     int    `form:"bookId" json:"bookId"`
	ReviewText string `form:"review_text" json:"review_text" mod:"trim" validate:"max=10000"`
	Rating     *int   `form:"rating" json:"rating"`
}

// BookFormData feeds the add/edit template. Existing is set when a book with
// the requested title has already been reviewed.
type BookFormData struct {
	Title    string
	Author   string
	CoverID  *int
	Existing *ExistingReview
}

type ExistingReview struct {
	BookID     int
	ReviewText string
	Rating     int
}
