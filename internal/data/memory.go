package data

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBookModel is an in-process BookStore. It follows the same ownership
// and ordering rules as BookModel and is used for local runs and tests.
type MemoryBookModel struct {
	mu    sync.RWMutex
	books map[string]*Book
	last  time.Time
	now   func() time.Time
}

// NewMemoryBookModel returns an empty in-memory store.
func NewMemoryBookModel() *MemoryBookModel {
	return &MemoryBookModel{
		books: make(map[string]*Book),
		now:   time.Now,
	}
}

func (m *MemoryBookModel) GetAllForUser(_ context.Context, userID string, status Status) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := []*Book{}
	for _, b := range m.books {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		book := *b
		books = append(books, &book)
	}

	slices.SortFunc(books, func(a, b *Book) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return books, nil
}

func (m *MemoryBookModel) Insert(_ context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// created_at must strictly increase so newest-first order is stable.
	created := m.now().UTC()
	if !created.After(m.last) {
		created = m.last.Add(time.Microsecond)
	}
	m.last = created

	book.ID = uuid.NewString()
	book.CreatedAt = created

	stored := *book
	m.books[book.ID] = &stored
	return nil
}

func (m *MemoryBookModel) UpdateStatus(_ context.Context, id, userID string, status Status) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok || b.UserID != userID {
		return nil, ErrRecordNotFound
	}
	b.Status = status

	book := *b
	return &book, nil
}

func (m *MemoryBookModel) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok || b.UserID != userID {
		return ErrRecordNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *MemoryBookModel) Ping(context.Context) error { return nil }

// Len returns the number of stored books across all users.
func (m *MemoryBookModel) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books)
}
