package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/httpx"
)

type apiBookResponse struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Year         int     `json:"year"`
	ISBN         string  `json:"isbn"`
	ReviewCount  int     `json:"review_count"`
	AverageScore float64 `json:"average_score"`
}

type apiBookRequest struct {
	ISBN string `validate:"required,isbn"`
}

// APIBookByISBN handles GET /api/{isbn}.
func (h *Handler) APIBookByISBN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	isbn := strings.TrimPrefix(r.URL.Path, "/api/")

	// A syntactically invalid ISBN can't be in the catalog; same outcome
	// as an unknown one.
	if err := validate.Struct(apiBookRequest{ISBN: isbn}); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "book with that isbn was not found")
		return
	}

	book, err := h.catalog.GetByISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "book with that isbn was not found")
			return
		}
		log.Printf("api isbn=%s failed: %v", isbn, err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	stats, err := h.reviews.BookStats(r.Context(), book.ID)
	if err != nil {
		log.Printf("api isbn=%s stats failed: %v", isbn, err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiBookResponse{
		Title:        book.Title,
		Author:       book.AuthorName,
		Year:         book.PublicationYear,
		ISBN:         book.ISBN,
		ReviewCount:  stats.Count,
		AverageScore: stats.Average,
	})
}
