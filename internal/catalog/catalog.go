package catalog

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyQuery = errors.New("search query is empty")
)

type Author struct {
	ID   int64
	Name string
}

type Book struct {
	ID              int64
	ISBN            string
	Title           string
	PublicationYear int
	AuthorID        int64
	AuthorName      string
}

// SearchQuery holds optional case-insensitive substring fragments.
// At least one fragment must be non-empty for a search to run.
type SearchQuery struct {
	ISBN   string
	Author string
	Title  string
}

func (q SearchQuery) Empty() bool {
	return q.ISBN == "" && q.Author == "" && q.Title == ""
}
