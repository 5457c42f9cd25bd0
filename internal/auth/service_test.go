package auth

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"
	"bookcatalog/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(testutil.NewMemUserRepo(), testutil.NewMemSessionRepo(), time.Hour)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("valid registration", func(t *testing.T) {
		s := newTestService()

		u, err := s.Register(ctx, "bob", "password1", "password1")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
		assert.NotEqual(t, "password1", u.Password) // stored hashed
	})

	t.Run("duplicate username", func(t *testing.T) {
		s := newTestService()

		_, err := s.Register(ctx, "bob", "password1", "password1")
		require.NoError(t, err)

		_, err = s.Register(ctx, "bob", "different1", "different1")
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "username", fieldErr.Field)
		assert.Equal(t, "Username is already taken!", fieldErr.Message)
	})

	t.Run("validation messages", func(t *testing.T) {
		cases := []struct {
			name       string
			username   string
			password   string
			passRepeat string
			field      string
			message    string
		}{
			{"missing username", "", "password1", "password1", "username", "You must enter your username!"},
			{"missing password", "bob", "", "", "password", "You must enter your password!"},
			{"short password", "bob", "short", "short", "password", "Password must be at least 8 characters long!"},
			{"missing repeat", "bob", "password1", "", "passRepeat", "You must repeat your password!"},
			{"mismatched repeat", "bob", "password1", "password2", "passRepeat", "Password do not match!"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				s := newTestService()
				_, err := s.Register(ctx, tc.username, tc.password, tc.passRepeat)
				var fieldErr *FieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, tc.field, fieldErr.Field)
				assert.Equal(t, tc.message, fieldErr.Message)
			})
		}
	})

	t.Run("trailing whitespace is ignored", func(t *testing.T) {
		s := newTestService()

		u, err := s.Register(ctx, "bob \n", "password1\t", "password1")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
	})
}

func TestService_LoginLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("login returns a usable session token", func(t *testing.T) {
		s := newTestService()
		_, err := s.Register(ctx, "bob", "password1", "password1")
		require.NoError(t, err)

		token, u, err := s.Login(ctx, "bob", "password1")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
		assert.Len(t, token, 64) // 32 random bytes, hex encoded

		got, err := s.UserFromToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		s := newTestService()
		_, err := s.Register(ctx, "bob", "password1", "password1")
		require.NoError(t, err)

		_, _, err = s.Login(ctx, "bob", "wrongpass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newTestService()

		_, _, err := s.Login(ctx, "nobody", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("logout invalidates the token", func(t *testing.T) {
		s := newTestService()
		_, err := s.Register(ctx, "bob", "password1", "password1")
		require.NoError(t, err)

		token, _, err := s.Login(ctx, "bob", "password1")
		require.NoError(t, err)

		require.NoError(t, s.Logout(ctx, token))

		_, err = s.UserFromToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		s := NewService(testutil.NewMemUserRepo(), testutil.NewMemSessionRepo(), -time.Minute)
		_, err := s.Register(ctx, "bob", "password1", "password1")
		require.NoError(t, err)

		token, _, err := s.Login(ctx, "bob", "password1")
		require.NoError(t, err)

		_, err = s.UserFromToken(ctx, token)
		assert.Error(t, err)
	})
}

func TestService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	registered, err := s.Register(ctx, "alice", "longenough", "longenough")
	require.NoError(t, err)

	_, loggedIn, err := s.Login(ctx, "alice", "longenough")
	require.NoError(t, err)
	assert.Equal(t, user.User{ID: registered.ID, Username: "alice", Password: registered.Password}, loggedIn)
}
