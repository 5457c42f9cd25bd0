package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"bookcatalog/internal/session"
	"bookcatalog/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// FieldError is a validation failure tied to a single form field. The web
// layer re-renders the form with the message inline.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

type Service struct {
	users      user.Repository
	sessions   session.Repository
	sessionTTL time.Duration
}

func NewService(users user.Repository, sessions session.Repository, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Register creates a user with a bcrypt-hashed password. Validation
// failures come back as *FieldError; anything else is a storage error.
func (s *Service) Register(ctx context.Context, username, password, passRepeat string) (user.User, error) {
	username = strings.TrimRight(username, " \t\r\n")
	password = strings.TrimRight(password, " \t\r\n")
	passRepeat = strings.TrimRight(passRepeat, " \t\r\n")

	if username == "" {
		return user.User{}, &FieldError{Field: "username", Message: "You must enter your username!"}
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return user.User{}, &FieldError{Field: "username", Message: "Username is already taken!"}
	} else if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}
	if password == "" {
		return user.User{}, &FieldError{Field: "password", Message: "You must enter your password!"}
	}
	if len(password) < 8 {
		return user.User{}, &FieldError{Field: "password", Message: "Password must be at least 8 characters long!"}
	}
	if passRepeat == "" {
		return user.User{}, &FieldError{Field: "passRepeat", Message: "You must repeat your password!"}
	}
	if password != passRepeat {
		return user.User{}, &FieldError{Field: "passRepeat", Message: "Password do not match!"}
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return user.User{}, err
	}

	u := user.User{Username: username, Password: hashed}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			// Lost a race with a concurrent registration; same outcome as
			// the pre-check above.
			return user.User{}, &FieldError{Field: "username", Message: "Username is already taken!"}
		}
		return user.User{}, err
	}
	return u, nil
}

// Login verifies the credentials and establishes a server-side session.
// The returned token is the only copy of the secret; the store keeps a hash.
func (s *Service) Login(ctx context.Context, username, password string) (string, user.User, error) {
	username = strings.TrimRight(username, " \t\r\n")
	password = strings.TrimRight(password, " \t\r\n")

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !VerifyPassword(u.Password, password) {
		return "", user.User{}, ErrInvalidCredentials
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", user.User{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	sess := &session.Session{
		UserID:    u.ID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}

// Logout removes the session for the given token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteByTokenHash(ctx, hashToken(token))
}

// UserFromToken resolves an opaque session token to its user.
func (s *Service) UserFromToken(ctx context.Context, token string) (user.User, error) {
	sess, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return user.User{}, err
	}
	return s.users.GetByID(ctx, sess.UserID)
}
