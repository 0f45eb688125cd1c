package book

import (
	"errors"
	"fmt"
	"time"
)

// DefaultCoverImage is stored for every book created without a cover.
const DefaultCoverImage = "default-cover.jpg"

var (
	// ErrNotFound is returned when no book has the given id.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already uses the ISBN.
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")
	// ErrInvalidID is returned when an id is not in the backend's id format.
	ErrInvalidID = errors.New("invalid book id")
	// ErrValidation wraps missing or malformed input fields.
	ErrValidation = errors.New("validation failed")
	// ErrNoFile is returned when a cover upload carries no file.
	ErrNoFile = errors.New("no file uploaded")
)

// Book represents a book record.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"publishedDate"`
	ISBN          string    `json:"ISBN"`
	CoverImage    string    `json:"coverImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	PublishedDate string `json:"publishedDate" validate:"required,date"`
	ISBN          string `json:"ISBN" validate:"required"`
}

// UpdateInput is the body of an update request. Nil fields are left unchanged.
type UpdateInput struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	PublishedDate *string `json:"publishedDate"`
	ISBN          *string `json:"ISBN"`
}

// Changes is the set of fields a repository writes on update.
type Changes struct {
	Title         *string
	Author        *string
	PublishedDate *time.Time
	ISBN          *string
	CoverImage    *string
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
// and returns the instant in UTC at millisecond precision, the finest both
// backends store.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}
