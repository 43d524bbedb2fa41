package model

// PostOrder selects the sort order for post listings.
type PostOrder string

const (
	OrderRecent PostOrder = "recent"
	OrderViews  PostOrder = "views"
)

type Post struct {
	ID          int64
	UserID      int64
	Title       string
	Recipe      string // sanitized HTML
	Ingredients string // sanitized HTML
	Image       string // URL of the stored image
	Price       string
	Views       int64
}
