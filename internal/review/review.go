package review

import (
	"errors"
	"time"
)

var (
	ErrAlreadyReviewed  = errors.New("You have already submitted a review for this book.")
	ErrEmptyReview      = errors.New("You must type in your review.")
	ErrRatingOutOfRange = errors.New("Rating must be between 1 and 5.")
)

type Review struct {
	ID       int64
	Rating   int
	Review   string
	UserID   int64
	BookID   int64
	Date     time.Time
	Username string // joined from users for display
}

// Stats is the local rating aggregate for one book. Count == 0 means the
// book has no ratings; Average is meaningless in that case and callers
// must report "no ratings" instead of a number.
type Stats struct {
	Average float64
	Count   int
}
