package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookcatalog/internal/book"
)

// MemoryRepository is a book.Repository kept in a map, for tests that need
// real persistence semantics without a database.
type MemoryRepository struct {
	mu    sync.Mutex
	books map[string]book.Book
	order []string
	Err   error // returned by Ping when set
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: make(map[string]book.Book)}
}

func (m *MemoryRepository) Create(_ context.Context, b book.Book) (book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.books {
		if existing.ISBN == b.ISBN {
			return book.Book{}, book.ErrDuplicateISBN
		}
	}
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.books[b.ID] = b
	m.order = append(m.order, b.ID)
	return b, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]book.Book, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.books[id])
	}
	return out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id string) (book.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return book.Book{}, book.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (m *MemoryRepository) Update(_ context.Context, id string, ch book.Changes) (book.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return book.Book{}, book.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	if ch.ISBN != nil {
		for otherID, other := range m.books {
			if otherID != id && other.ISBN == *ch.ISBN {
				return book.Book{}, book.ErrDuplicateISBN
			}
		}
		b.ISBN = *ch.ISBN
	}
	if ch.Title != nil {
		b.Title = *ch.Title
	}
	if ch.Author != nil {
		b.Author = *ch.Author
	}
	if ch.PublishedDate != nil {
		b.PublishedDate = *ch.PublishedDate
	}
	if ch.CoverImage != nil {
		b.CoverImage = *ch.CoverImage
	}
	b.UpdatedAt = time.Now().UTC()
	m.books[id] = b
	return b, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return book.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(m.books, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepository) Ping(_ context.Context) error {
	return m.Err
}
