package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/goodreads"
	"bookcatalog/internal/review"
)

type searchView struct {
	CurrentUser string
	Error       bool
}

type searchResultsView struct {
	CurrentUser string
	Query       string
	Books       []catalog.Book
}

type bookView struct {
	CurrentUser     string
	Book            catalog.Book
	Reviews         []review.Review
	Stats           review.Stats
	ExternalRatings *goodreads.BookRatings
	HasReviewed     bool
}

// Search handles GET/POST /search. A valid POST redirects to the composite
// query path /search/{isbn},{author},{title}.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	username := httpx.UsernameFrom(r)
	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "search.html", searchView{CurrentUser: username})
	case http.MethodPost:
		isbn := strings.TrimSpace(r.PostFormValue("isbn"))
		author := strings.TrimSpace(r.PostFormValue("author"))
		title := strings.TrimSpace(r.PostFormValue("title"))

		if isbn == "" && author == "" && title == "" {
			h.render(w, http.StatusOK, "search.html", searchView{CurrentUser: username, Error: true})
			return
		}

		query := fmt.Sprintf("%s,%s,%s", isbn, author, title)
		http.Redirect(w, r, "/search/"+url.PathEscape(query), http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SearchResults handles GET /search/{query} where query is
// "isbn,author,title" with empty fragments allowed.
func (h *Handler) SearchResults(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/search/")
	query, err := url.PathUnescape(raw)
	if err != nil {
		query = raw
	}

	parts := strings.SplitN(query, ",", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	q := catalog.SearchQuery{ISBN: parts[0], Author: parts[1], Title: parts[2]}

	books, err := h.catalog.Search(r.Context(), q)
	if err != nil && !errors.Is(err, catalog.ErrEmptyQuery) {
		log.Printf("search query=%q failed: %v", query, err)
		h.renderError(w, http.StatusInternalServerError, "There was a problem. Please try again later.")
		return
	}

	h.render(w, http.StatusOK, "search_results.html", searchResultsView{
		CurrentUser: httpx.UsernameFrom(r),
		Query:       query,
		Books:       books,
	})
}

// bookRoutes dispatches /book/{id} and /book/{id}/review.
func (h *Handler) bookRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/book/")

	if idStr, ok := strings.CutSuffix(rest, "/review"); ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		h.Review(w, r, id)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.BookDetail(w, r, id)
}

// BookDetail renders one book with its reviews, the local rating aggregate
// and the third-party aggregate.
func (h *Handler) BookDetail(w http.ResponseWriter, r *http.Request, id int64) {
	book, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("book id=%d failed: %v", id, err)
		h.renderError(w, http.StatusInternalServerError, "There was a problem. Please try again later.")
		return
	}

	reviews, err := h.reviews.ListByBook(r.Context(), id)
	if err != nil {
		log.Printf("book id=%d reviews failed: %v", id, err)
		h.renderError(w, http.StatusInternalServerError, "There was a problem. Please try again later.")
		return
	}

	stats, err := h.reviews.BookStats(r.Context(), id)
	if err != nil {
		log.Printf("book id=%d stats failed: %v", id, err)
		h.renderError(w, http.StatusInternalServerError, "There was a problem. Please try again later.")
		return
	}

	external, err := h.ratings.ReviewCounts(r.Context(), book.ISBN)
	if err != nil {
		log.Printf("book id=%d external ratings failed: %v", id, err)
		h.renderError(w, http.StatusBadGateway, "Couldn't read the api data.")
		return
	}

	var hasReviewed bool
	if userID := httpx.UserIDFrom(r); userID != 0 {
		hasReviewed, _ = h.reviews.HasReview(r.Context(), userID, id)
	}

	h.render(w, http.StatusOK, "book.html", bookView{
		CurrentUser:     httpx.UsernameFrom(r),
		Book:            book,
		Reviews:         reviews,
		Stats:           stats,
		ExternalRatings: external,
		HasReviewed:     hasReviewed,
	})
}
