// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"

	"github.com/aoideee/booktracker/internal/metrics"
)

// ErrRecordNotFound is returned when an update or delete matches no row owned
// by the caller. A missing id and an id owned by someone else look the same.
var ErrRecordNotFound = errors.New("record not found")

// StorageError wraps any failure reported by the data store. Its message is
// the store's own text so it can be passed to clients unchanged.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	var pqErr *pq.Error
	if errors.As(e.Err, &pqErr) {
		return pqErr.Message
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// BookStore is the owner-scoped book repository. Every method that reads or
// mutates rows takes the caller's user id and filters on it.
type BookStore interface {
	// GetAllForUser returns the user's books newest first. An empty status
	// means no status filter.
	GetAllForUser(ctx context.Context, userID string, status Status) ([]*Book, error)
	// Insert stores book and writes the assigned ID and CreatedAt back into it.
	Insert(ctx context.Context, book *Book) error
	// UpdateStatus sets the status of the book matching id and userID.
	UpdateStatus(ctx context.Context, id, userID string, status Status) (*Book, error)
	// Delete removes the book matching id and userID.
	Delete(ctx context.Context, id, userID string) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// Models is a top-level container that groups all repositories together.
// It is passed around the application via applicationDependencies.
type Models struct {
	Books BookStore
}

// NewModels wraps the given book store with metrics instrumentation.
func NewModels(books BookStore) Models {
	return Models{
		Books: instrumentedStore{next: books},
	}
}

// NewPostgresModels constructs Models backed by a PostgreSQL connection pool.
func NewPostgresModels(db *sql.DB) Models {
	return NewModels(BookModel{DB: db})
}

// BookModel wraps a *sql.DB connection pool and implements BookStore on PostgreSQL.
type BookModel struct {
	DB *sql.DB
}

const bookColumns = `id, title, author, status, user_id, created_at`

// GetAllForUser selects every book owned by userID, optionally restricted to
// one status, ordered by created_at descending.
func (m BookModel) GetAllForUser(ctx context.Context, userID string, status Status) ([]*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, string(status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		var book Book
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Status, &book.UserID, &book.CreatedAt); err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		books = append(books, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	return books, nil
}

// Insert adds a new book row. The database-assigned id and created_at are
// written back into book.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (title, author, status, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.DB.QueryRowContext(ctx, query, book.Title, book.Author, string(book.Status), book.UserID).
		Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}

// UpdateStatus changes the status of one owned book and returns the updated row.
func (m BookModel) UpdateStatus(ctx context.Context, id, userID string, status Status) (*Book, error) {
	query := `
		UPDATE books
		SET status = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + bookColumns

	var book Book
	err := m.DB.QueryRowContext(ctx, query, string(status), id, userID).
		Scan(&book.ID, &book.Title, &book.Author, &book.Status, &book.UserID, &book.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, &StorageError{Op: "update", Err: err}
		}
	}
	return &book, nil
}

// Delete removes one owned book. Returns ErrRecordNotFound if nothing matched.
func (m BookModel) Delete(ctx context.Context, id, userID string) error {
	result, err := m.DB.ExecContext(ctx, `DELETE FROM books WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Ping verifies the connection pool can reach the database.
func (m BookModel) Ping(ctx context.Context) error {
	if err := m.DB.PingContext(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// instrumentedStore counts every repository call by operation and outcome.
type instrumentedStore struct {
	next BookStore
}

func (s instrumentedStore) GetAllForUser(ctx context.Context, userID string, status Status) ([]*Book, error) {
	books, err := s.next.GetAllForUser(ctx, userID, status)
	metrics.RecordStoreOperation("list", storeResult(err))
	return books, err
}

func (s instrumentedStore) Insert(ctx context.Context, book *Book) error {
	err := s.next.Insert(ctx, book)
	metrics.RecordStoreOperation("insert", storeResult(err))
	return err
}

func (s instrumentedStore) UpdateStatus(ctx context.Context, id, userID string, status Status) (*Book, error) {
	book, err := s.next.UpdateStatus(ctx, id, userID, status)
	metrics.RecordStoreOperation("update", storeResult(err))
	return book, err
}

func (s instrumentedStore) Delete(ctx context.Context, id, userID string) error {
	err := s.next.Delete(ctx, id, userID)
	metrics.RecordStoreOperation("delete", storeResult(err))
	return err
}

func (s instrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func storeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRecordNotFound):
		return "not_found"
	default:
		return "error"
	}
}
