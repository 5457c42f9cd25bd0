package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetOrCreateAuthor(ctx context.Context, name string) (int64, bool, error) {
	// The no-op DO UPDATE makes the existing row visible to RETURNING.
	// xmax = 0 only holds for a freshly inserted row.
	const query = `
	INSERT INTO authors (name)
	VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id, (xmax = 0)
	`
	var id int64
	var created bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&id, &created); err != nil {
		return 0, false, fmt.Errorf("get or create author: %w", err)
	}
	return id, created, nil
}

func (r *PostgresRepo) InsertBook(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (isbn, title, publication_year, author)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`
	if err := r.db.QueryRow(ctx, query, b.ISBN, b.Title, b.PublicationYear, b.AuthorID).Scan(&b.ID); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Search(ctx context.Context, q SearchQuery) ([]Book, error) {
	const query = `
	SELECT books.id, books.isbn, books.title, books.publication_year, authors.id, authors.name
	FROM books
	INNER JOIN authors ON books.author = authors.id
	WHERE books.isbn ILIKE '%' || $1 || '%'
	AND authors.name ILIKE '%' || $2 || '%'
	AND books.title ILIKE '%' || $3 || '%'
	ORDER BY books.title
	`
	rows, err := r.db.Query(ctx, query, q.ISBN, q.Author, q.Title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.PublicationYear, &b.AuthorID, &b.AuthorName); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
	SELECT books.id, books.isbn, books.title, books.publication_year, authors.id, authors.name
	FROM books
	INNER JOIN authors ON books.author = authors.id
	WHERE books.id = $1
	LIMIT 1
	`
	return r.scanBook(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	const query = `
	SELECT books.id, books.isbn, books.title, books.publication_year, authors.id, authors.name
	FROM books
	INNER JOIN authors ON books.author = authors.id
	WHERE books.isbn = $1
	LIMIT 1
	`
	return r.scanBook(r.db.QueryRow(ctx, query, isbn))
}

func (r *PostgresRepo) scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.ISBN, &b.Title, &b.PublicationYear, &b.AuthorID, &b.AuthorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}
