package web

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm("/register", url.Values{
			"username":   {"bob"},
			"password":   {"password1"},
			"passRepeat": {"password1"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "bob")
	})

	t.Run("duplicate username shows the alert", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t, "bob", "password1")

		w := env.postForm("/register", url.Values{
			"username":   {"bob"},
			"password":   {"password1"},
			"passRepeat": {"password1"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Username is already taken!")
	})

	t.Run("short password shows the alert", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm("/register", url.Values{
			"username":   {"bob"},
			"password":   {"short"},
			"passRepeat": {"short"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Password must be at least 8 characters long!")
	})

	t.Run("mismatched repeat shows the alert", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm("/register", url.Values{
			"username":   {"bob"},
			"password":   {"password1"},
			"passRepeat": {"password2"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Password do not match!")
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials set the session cookie", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t, "bob", "password1")

		w := env.postForm("/login", url.Values{
			"username": {"bob"},
			"password": {"password1"},
		})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookie, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t, "bob", "password1")

		w := env.postForm("/login", url.Values{
			"username": {"bob"},
			"password": {"wrongpass1"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password.")
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("logged-in identity appears in the nav", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.signUp(t, "bob", "password1")

		w := env.get("/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "bob")
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signUp(t, "bob", "password1")

	w := env.get("/logout", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	// The old token no longer resolves to a user.
	w = env.get("/", cookie)
	assert.NotContains(t, w.Body.String(), "Logged in as")
}
