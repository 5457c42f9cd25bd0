package catalog

import (
	"context"
	"strings"
)

// Service provides catalog queries for the web layer.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search matches books on any combination of isbn/author/title fragments.
// Returns ErrEmptyQuery when every fragment is blank.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Book, error) {
	q.ISBN = strings.TrimSpace(q.ISBN)
	q.Author = strings.TrimSpace(q.Author)
	q.Title = strings.TrimSpace(q.Title)
	if q.Empty() {
		return nil, ErrEmptyQuery
	}
	return s.repo.Search(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}
