package book

import (
	"context"
	"io"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b Book) (Book, error)
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, id string, ch Changes) (Book, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// CoverStore persists uploaded cover images and returns the path under
// which the stored file is served.
type CoverStore interface {
	Store(ctx context.Context, filename string, src io.Reader) (string, error)
}
