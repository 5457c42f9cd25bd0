package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/review"
)

type reviewView struct {
	CurrentUser string
	BookID      int64
	Alert       string
	Rating      string
	Review      string
}

// Review handles GET/POST /book/{id}/review. Requires a logged-in session.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request, bookID int64) {
	userID := httpx.UserIDFrom(r)
	if userID == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		submitted, err := h.reviews.HasReview(r.Context(), userID, bookID)
		if err != nil {
			log.Printf("review check book=%d user=%d failed: %v", bookID, userID, err)
			h.renderError(w, http.StatusInternalServerError, "There was a problem. Please try again later.")
			return
		}
		if submitted {
			h.renderError(w, http.StatusOK, "You have already submitted a review for this book.")
			return
		}
		h.render(w, http.StatusOK, "review.html", reviewView{
			CurrentUser: httpx.UsernameFrom(r),
			BookID:      bookID,
		})
	case http.MethodPost:
		h.reviewSubmit(w, r, userID, bookID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) reviewSubmit(w http.ResponseWriter, r *http.Request, userID, bookID int64) {
	ratingStr := r.PostFormValue("rating")
	text := r.PostFormValue("review")

	view := reviewView{
		CurrentUser: httpx.UsernameFrom(r),
		BookID:      bookID,
		Rating:      ratingStr,
		Review:      text,
	}

	rating, err := strconv.Atoi(ratingStr)
	if err != nil {
		view.Alert = review.ErrRatingOutOfRange.Error()
		h.render(w, http.StatusOK, "review.html", view)
		return
	}

	if _, err := h.reviews.Submit(r.Context(), userID, bookID, rating, text); err != nil {
		switch {
		case errors.Is(err, review.ErrAlreadyReviewed):
			h.renderError(w, http.StatusOK, err.Error())
		case errors.Is(err, review.ErrEmptyReview), errors.Is(err, review.ErrRatingOutOfRange):
			view.Alert = err.Error()
			h.render(w, http.StatusOK, "review.html", view)
		default:
			log.Printf("review submit book=%d user=%d failed: %v", bookID, userID, err)
			h.renderError(w, http.StatusInternalServerError, "There was a problem. Please try again later.")
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/book/%d", bookID), http.StatusSeeOther)
}
