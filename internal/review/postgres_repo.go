package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, rev *Review) error {
	const query = `
	INSERT INTO reviews (rating, review, user_id, book_id)
	VALUES ($1, $2, $3, $4)
	RETURNING id, date
	`
	err := r.db.QueryRow(ctx, query, rev.Rating, rev.Review, rev.UserID, rev.BookID).Scan(&rev.ID, &rev.Date)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) HasReview(ctx context.Context, userID, bookID int64) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM reviews
		WHERE user_id = $1 AND book_id = $2
	)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, bookID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64) ([]Review, error) {
	const query = `
	SELECT reviews.id, reviews.rating, reviews.review, reviews.user_id, reviews.book_id, reviews.date, users.username
	FROM reviews
	INNER JOIN users ON reviews.user_id = users.id
	WHERE reviews.book_id = $1
	ORDER BY reviews.date DESC
	`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.Rating, &rev.Review, &rev.UserID, &rev.BookID, &rev.Date, &rev.Username); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *PostgresRepo) BookStats(ctx context.Context, bookID int64) (Stats, error) {
	const query = `
	SELECT AVG(rating)::FLOAT, COUNT(*)
	FROM reviews
	WHERE book_id = $1
	`
	var average sql.NullFloat64
	var count int
	if err := r.db.QueryRow(ctx, query, bookID).Scan(&average, &count); err != nil {
		return Stats{}, err
	}
	if !average.Valid {
		return Stats{}, nil
	}
	return Stats{Average: average.Float64, Count: count}, nil
}
