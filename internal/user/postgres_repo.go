package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (username, password)
	VALUES ($1, $2)
	RETURNING id
	`
	err := r.db.QueryRow(ctx, query, u.Username, u.Password).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const query = `
	SELECT id, username, password
	FROM users
	WHERE username = $1
	LIMIT 1
	`
	var u User
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (User, error) {
	const query = `
	SELECT id, username, password
	FROM users
	WHERE id = $1
	LIMIT 1
	`
	var u User
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
