package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetOrCreateAuthor(ctx context.Context, name string) (int64, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *mockRepo) InsertBook(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) Search(ctx context.Context, q SearchQuery) ([]Book, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Book), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(Book), args.Error(1)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("all fragments blank", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		_, err := s.Search(ctx, SearchQuery{ISBN: "  ", Author: "", Title: "\t"})
		assert.ErrorIs(t, err, ErrEmptyQuery)
		repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("fragments are trimmed before matching", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("Search", ctx, SearchQuery{Author: "tolkien"}).
			Return([]Book{{ID: 1, Title: "The Hobbit"}}, nil)

		books, err := s.Search(ctx, SearchQuery{Author: "  tolkien  "})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "The Hobbit", books[0].Title)
		repo.AssertExpectations(t)
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		repo := new(mockRepo)
		s := NewService(repo)

		repo.On("Search", ctx, SearchQuery{Title: "nothing"}).Return([]Book{}, nil)

		books, err := s.Search(ctx, SearchQuery{Title: "nothing"})
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}
