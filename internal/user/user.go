package user

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("username already exists")
)

type User struct {
	ID       int64
	Username string
	Password string // bcrypt hash, never the plaintext
}
