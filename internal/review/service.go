package review

import (
	"context"
	"math"
	"strings"
)

// Service enforces the one-review-per-user-per-book rule and aggregates
// ratings. The state machine per (user, book) is no_review -> submitted,
// terminal.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit records a review. Text must be non-empty, rating must be 1-5,
// and a second submission for the same book is rejected.
func (s *Service) Submit(ctx context.Context, userID, bookID int64, rating int, text string) (Review, error) {
	text = strings.TrimRight(text, " \t\r\n")
	if text == "" {
		return Review{}, ErrEmptyReview
	}
	if rating < 1 || rating > 5 {
		return Review{}, ErrRatingOutOfRange
	}

	rev := Review{
		Rating: rating,
		Review: text,
		UserID: userID,
		BookID: bookID,
	}
	if err := s.repo.Create(ctx, &rev); err != nil {
		return Review{}, err
	}
	return rev, nil
}

func (s *Service) HasReview(ctx context.Context, userID, bookID int64) (bool, error) {
	return s.repo.HasReview(ctx, userID, bookID)
}

func (s *Service) ListByBook(ctx context.Context, bookID int64) ([]Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// BookStats returns the local aggregate with the average rounded to two
// decimal places. A zero Count means no ratings.
func (s *Service) BookStats(ctx context.Context, bookID int64) (Stats, error) {
	stats, err := s.repo.BookStats(ctx, bookID)
	if err != nil {
		return Stats{}, err
	}
	stats.Average = math.Round(stats.Average*100) / 100
	return stats, nil
}
