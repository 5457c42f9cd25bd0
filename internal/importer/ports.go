package importer

import "context"

type Repository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
}
