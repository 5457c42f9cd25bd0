package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *PostgresRepo) Create(ctx context.Context, s *Session) error {
	const query = `
	INSERT INTO sessions (id, user_id, token_hash, expires_at)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, s.UserID, s.TokenHash, s.ExpiresAt).Scan(&s.ID, &s.CreatedAt)
}

func (r *PostgresRepo) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	const query = `
	SELECT id, user_id, token_hash, expires_at, created_at
	FROM sessions
	WHERE token_hash = $1 AND expires_at > now()
	LIMIT 1
	`
	var s Session
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, tokenHash).Scan(
		&s.ID,
		&s.UserID,
		&s.TokenHash,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	const query = `DELETE FROM sessions WHERE token_hash = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, tokenHash)
	return err
}

func (r *PostgresRepo) CleanupExpired(ctx context.Context) error {
	const query = `DELETE FROM sessions WHERE expires_at < now()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query)
	return err
}
