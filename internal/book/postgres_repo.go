package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique constraint hit.
const uniqueViolation = "23505"

const bookColumns = `id, title, author, published_date, isbn, cover_image, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, b Book) (Book, error) {
	const query = `
		INSERT INTO books (title, author, published_date, isbn, cover_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	out, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.PublishedDate, b.ISBN, b.CoverImage,
	))
	if err != nil {
		return Book{}, translatePgError(err)
	}
	return out, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY created_at, id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, ErrInvalidID
	}

	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		return Book{}, translatePgError(err)
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, ch Changes) (Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, ErrInvalidID
	}

	sets := []string{"updated_at = now()"}
	args := []any{}
	argn := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argn))
		args = append(args, value)
		argn++
	}
	if ch.Title != nil {
		add("title", *ch.Title)
	}
	if ch.Author != nil {
		add("author", *ch.Author)
	}
	if ch.PublishedDate != nil {
		add("published_date", *ch.PublishedDate)
	}
	if ch.ISBN != nil {
		add("isbn", *ch.ISBN)
	}
	if ch.CoverImage != nil {
		add("cover_image", *ch.CoverImage)
	}

	query := fmt.Sprintf(`
		UPDATE books SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(sets, ", "), argn, bookColumns)
	args = append(args, id)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		return Book{}, translatePgError(err)
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.PublishedDate, &b.ISBN, &b.CoverImage,
		&b.CreatedAt, &b.UpdatedAt,
	)
	// timestamptz scans into the local zone
	b.PublishedDate = b.PublishedDate.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, err
}

func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateISBN
	}
	return err
}
