package importer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const query = `
	INSERT INTO import_runs (id, started_at, status)
	VALUES ($1, $2, $3)
	`
	id := uuid.New().String()
	_, err := r.db.Exec(ctx, query, id, run.StartedAt, run.Status)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const query = `
	UPDATE import_runs SET
		finished_at = $1,
		status = $2,
		rows_read = $3,
		authors_created = $4,
		books_created = $5,
		error = $6
	WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, run.FinishedAt, run.Status, run.RowsRead, run.AuthorsCreated, run.BooksCreated, run.Error, run.ID)
	return err
}
