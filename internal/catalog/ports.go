package catalog

import "context"

// Repository defines the contract for catalog storage.
type Repository interface {
	// GetOrCreateAuthor returns the id of the author with the given name,
	// creating the row if it does not exist yet. The operation is atomic:
	// concurrent callers with the same name always resolve to one row.
	GetOrCreateAuthor(ctx context.Context, name string) (id int64, created bool, err error)
	InsertBook(ctx context.Context, b *Book) error
	Search(ctx context.Context, q SearchQuery) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
}
