package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
}
