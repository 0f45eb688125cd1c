package book

import (
	"context"
	"fmt"
	"io"
)

// Service provides book-related business logic.
type Service struct {
	repo   Repository
	covers CoverStore
}

// NewService creates a new book service.
func NewService(repo Repository, covers CoverStore) *Service {
	return &Service{repo: repo, covers: covers}
}

// Create validates in and persists a new book with the default cover.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	if err := validateStruct(in); err != nil {
		return Book{}, err
	}
	published, err := ParseDate(in.PublishedDate)
	if err != nil {
		return Book{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return s.repo.Create(ctx, Book{
		Title:         in.Title,
		Author:        in.Author,
		PublishedDate: published,
		ISBN:          in.ISBN,
		CoverImage:    DefaultCoverImage,
	})
}

// List returns every stored book.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns the book with the given id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces the supplied fields of a book. Supplied fields must not be
// empty.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	ch, err := changesFrom(in)
	if err != nil {
		return Book{}, err
	}
	return s.repo.Update(ctx, id, ch)
}

// UpdateCover stores src as the cover image of the book with the given id.
// The book is looked up first so that no file is written for an unknown id.
func (s *Service) UpdateCover(ctx context.Context, id, filename string, src io.Reader) (Book, error) {
	if src == nil {
		return Book{}, ErrNoFile
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Book{}, err
	}

	path, err := s.covers.Store(ctx, filename, src)
	if err != nil {
		return Book{}, fmt.Errorf("store cover image: %w", err)
	}
	return s.repo.Update(ctx, id, Changes{CoverImage: &path})
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func changesFrom(in UpdateInput) (Changes, error) {
	var ch Changes

	fields := []struct {
		name  string
		value *string
		dst   **string
	}{
		{"title", in.Title, &ch.Title},
		{"author", in.Author, &ch.Author},
		{"ISBN", in.ISBN, &ch.ISBN},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := validateField(f.name, *f.value, "required"); err != nil {
			return Changes{}, err
		}
		*f.dst = f.value
	}

	if in.PublishedDate != nil {
		if err := validateField("publishedDate", *in.PublishedDate, "required,date"); err != nil {
			return Changes{}, err
		}
		published, err := ParseDate(*in.PublishedDate)
		if err != nil {
			return Changes{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		ch.PublishedDate = &published
	}

	return ch, nil
}
