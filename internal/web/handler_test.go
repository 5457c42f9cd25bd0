package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/catalog"
	"bookcatalog/internal/platform/goodreads"
	"bookcatalog/internal/review"
	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/require"
)

// testEnv wires a Handler over in-memory repositories plus a mux with the
// full route table, so tests can exercise the same paths a browser hits.
type testEnv struct {
	handler *Handler
	mux     *http.ServeMux
	catalog *testutil.MemCatalogRepo
	reviews *testutil.MemReviewRepo
	ratings *testutil.StaticRatings
	auth    *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	catalogRepo := testutil.NewMemCatalogRepo()
	reviewRepo := testutil.NewMemReviewRepo()
	ratings := &testutil.StaticRatings{
		Ratings: goodreads.BookRatings{RatingsCount: 10, ReviewsCount: 20, AverageRating: "4.25"},
	}
	authSvc := auth.NewService(testutil.NewMemUserRepo(), testutil.NewMemSessionRepo(), time.Hour)

	h := NewHandler(
		catalog.NewService(catalogRepo),
		authSvc,
		review.NewService(reviewRepo),
		ratings,
		time.Hour,
	)
	mux := http.NewServeMux()
	h.Routes(mux)

	return &testEnv{
		handler: h,
		mux:     mux,
		catalog: catalogRepo,
		reviews: reviewRepo,
		ratings: ratings,
		auth:    authSvc,
	}
}

func (e *testEnv) seedBook(t *testing.T, isbn, title, author string, year int) catalog.Book {
	t.Helper()
	ctx := context.Background()

	authorID, _, err := e.catalog.GetOrCreateAuthor(ctx, author)
	require.NoError(t, err)
	b := &catalog.Book{ISBN: isbn, Title: title, AuthorID: authorID, PublicationYear: year}
	require.NoError(t, e.catalog.InsertBook(ctx, b))
	return *b
}

// signUp registers and logs in a user, returning the session cookie.
func (e *testEnv) signUp(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	ctx := context.Background()

	_, err := e.auth.Register(ctx, username, password, password)
	require.NoError(t, err)
	token, _, err := e.auth.Login(ctx, username, password)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: token}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)
	return w
}

func reviewFor(userID, bookID int64, rating int) review.Review {
	return review.Review{UserID: userID, BookID: bookID, Rating: rating, Review: "a review", Username: "reader"}
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)
	return w
}
