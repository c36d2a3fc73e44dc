// Package data provides the data models and storage logic for the
// reading tracker.
package data

import (
	"time"

	"github.com/aoideee/booktracker/internal/validator"
)

// Status is the reading state of a book.
type Status string

const (
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
	StatusWishlist  Status = "wishlist"
)

// DefaultStatus is stored when a book is created without a status.
const DefaultStatus = StatusReading

// Statuses lists every accepted status value.
var Statuses = []string{string(StatusReading), string(StatusCompleted), string(StatusWishlist)}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return validator.In(string(s), Statuses...)
}

// Book represents a single book record owned by one user.
// It maps directly to a row in the "books" table.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    Status    `json:"status"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBookInput holds the fields a client supplies when creating a book.
// Any user_id sent by the client is ignored; ownership comes from the token.
type CreateBookInput struct {
	Title  string `json:"title"  validate:"required"`
	Author string `json:"author" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=reading completed wishlist"`
}

// UpdateStatusInput holds the body of a status update.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=reading completed wishlist"`
}

// Validation messages returned to clients.
const (
	MsgMissingTitleOrAuthor = "Missing title or author"
	MsgInvalidStatus        = "Invalid status"
)

var bookMessages = map[string]string{
	"title":  MsgMissingTitleOrAuthor,
	"author": MsgMissingTitleOrAuthor,
	"status": MsgInvalidStatus,
}

// ValidateCreateBook checks a creation payload. An empty status is allowed
// and later replaced by DefaultStatus.
func ValidateCreateBook(v *validator.Validator, input *CreateBookInput) {
	v.Struct(input, bookMessages)
}

// ValidateUpdateStatus checks a status update payload. The status is required.
func ValidateUpdateStatus(v *validator.Validator, input *UpdateStatusInput) {
	v.Struct(input, bookMessages)
}

// StatusFilter converts a raw query value into a list filter. Values outside
// the enumeration yield an empty filter rather than an error.
func StatusFilter(raw string) Status {
	s := Status(raw)
	if !s.Valid() {
		return ""
	}
	return s
}
