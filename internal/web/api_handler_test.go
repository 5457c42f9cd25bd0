package web

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIBookByISBN(t *testing.T) {
	t.Run("unknown isbn", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.get("/api/9999999999999")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "book with that isbn was not found"}`, w.Body.String())
	})

	t.Run("malformed isbn gets the same 404", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedBook(t, "1632168146", "The Raven Boys", "Maggie Stiefvater", 2012)

		w := env.get("/api/not-an-isbn")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "book with that isbn was not found"}`, w.Body.String())
	})

	t.Run("book without reviews", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedBook(t, "1632168146", "The Raven Boys", "Maggie Stiefvater", 2012)

		w := env.get("/api/1632168146")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"title": "The Raven Boys",
			"author": "Maggie Stiefvater",
			"year": 2012,
			"isbn": "1632168146",
			"review_count": 0,
			"average_score": 0
		}`, w.Body.String())
	})

	t.Run("book with reviews", func(t *testing.T) {
		env := newTestEnv(t)
		book := env.seedBook(t, "9781632168146", "The Raven King", "Maggie Stiefvater", 2016)

		ctx := context.Background()
		for i, rating := range []int{4, 5} {
			rev := reviewFor(int64(i+1), book.ID, rating)
			require.NoError(t, env.reviews.Create(ctx, &rev))
		}

		w := env.get("/api/9781632168146")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"title": "The Raven King",
			"author": "Maggie Stiefvater",
			"year": 2016,
			"isbn": "9781632168146",
			"review_count": 2,
			"average_score": 4.5
		}`, w.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm("/api/1632168146", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
