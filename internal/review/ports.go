package review

import "context"

type Repository interface {
	// Create inserts the review and returns ErrAlreadyReviewed when the
	// (user, book) pair already has one.
	Create(ctx context.Context, rev *Review) error
	HasReview(ctx context.Context, userID, bookID int64) (bool, error)
	ListByBook(ctx context.Context, bookID int64) ([]Review, error)
	BookStats(ctx context.Context, bookID int64) (Stats, error)
}
