package book

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository exercises the behaviour every Repository implementation
// shares. missingID must be well-formed for the backend but unused.
func testRepository(t *testing.T, repo Repository, missingID string) {
	ctx := context.Background()
	isbn := fmt.Sprintf("test-%d", time.Now().UnixNano())
	published := time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, Book{
		Title:         "Dune",
		Author:        "Frank Herbert",
		PublishedDate: published,
		ISBN:          isbn,
		CoverImage:    DefaultCoverImage,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(context.Background(), created.ID) })

	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.True(t, published.Equal(created.PublishedDate))

	t.Run("duplicate isbn", func(t *testing.T) {
		_, err := repo.Create(ctx, Book{Title: "x", Author: "y", PublishedDate: published, ISBN: isbn, CoverImage: DefaultCoverImage})
		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})

	t.Run("keeps time of day", func(t *testing.T) {
		instant, err := ParseDate("2024-01-01T15:30:00.250-05:00")
		require.NoError(t, err)

		b, err := repo.Create(ctx, Book{Title: "t", Author: "a", PublishedDate: instant, ISBN: isbn + "-time", CoverImage: DefaultCoverImage})
		require.NoError(t, err)
		t.Cleanup(func() { _ = repo.Delete(context.Background(), b.ID) })

		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 20, 30, 0, 250e6, time.UTC), got.PublishedDate)
	})

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, DefaultCoverImage, got.CoverImage)

		_, err = repo.GetByID(ctx, missingID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("list contains created", func(t *testing.T) {
		books, err := repo.List(ctx)
		require.NoError(t, err)
		found := false
		for _, b := range books {
			if b.ID == created.ID {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("update", func(t *testing.T) {
		title := "Dune Messiah"
		cover := "/uploads/1-dune.png"
		got, err := repo.Update(ctx, created.ID, Changes{Title: &title, CoverImage: &cover})
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, "Frank Herbert", got.Author)
		assert.Equal(t, cover, got.CoverImage)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
		assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))

		_, err = repo.Update(ctx, missingID, Changes{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Update(ctx, "not-an-id", Changes{Title: &title})
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("update to taken isbn", func(t *testing.T) {
		second, err := repo.Create(ctx, Book{Title: "other", Author: "b", PublishedDate: published, ISBN: isbn + "-2", CoverImage: DefaultCoverImage})
		require.NoError(t, err)
		t.Cleanup(func() { _ = repo.Delete(context.Background(), second.ID) })

		taken := isbn
		_, err = repo.Update(ctx, second.ID, Changes{ISBN: &taken})
		assert.ErrorIs(t, err, ErrDuplicateISBN)

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, isbn+"-2", got.ISBN)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "not-an-id"), ErrInvalidID)

		_, err := repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
