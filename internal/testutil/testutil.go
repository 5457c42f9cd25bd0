// Package testutil provides in-memory repository fakes shared by the
// service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/importer"
	"bookcatalog/internal/platform/goodreads"
	"bookcatalog/internal/review"
	"bookcatalog/internal/session"
	"bookcatalog/internal/user"
)

// MemCatalogRepo implements catalog.Repository backed by maps.
type MemCatalogRepo struct {
	mu           sync.Mutex
	nextAuthorID int64
	nextBookID   int64
	authorsByName map[string]int64
	authorNames   map[int64]string
	books         []catalog.Book
}

func NewMemCatalogRepo() *MemCatalogRepo {
	return &MemCatalogRepo{
		authorsByName: make(map[string]int64),
		authorNames:   make(map[int64]string),
	}
}

func (r *MemCatalogRepo) GetOrCreateAuthor(ctx context.Context, name string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.authorsByName[name]; ok {
		return id, false, nil
	}
	r.nextAuthorID++
	r.authorsByName[name] = r.nextAuthorID
	r.authorNames[r.nextAuthorID] = name
	return r.nextAuthorID, true, nil
}

func (r *MemCatalogRepo) InsertBook(ctx context.Context, b *catalog.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authorNames[b.AuthorID]; !ok {
		return fmt.Errorf("author %d does not exist", b.AuthorID)
	}
	r.nextBookID++
	b.ID = r.nextBookID
	b.AuthorName = r.authorNames[b.AuthorID]
	r.books = append(r.books, *b)
	return nil
}

func (r *MemCatalogRepo) Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Book
	for _, b := range r.books {
		if containsFold(b.ISBN, q.ISBN) && containsFold(b.AuthorName, q.Author) && containsFold(b.Title, q.Title) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *MemCatalogRepo) GetByID(ctx context.Context, id int64) (catalog.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return catalog.Book{}, catalog.ErrNotFound
}

func (r *MemCatalogRepo) GetByISBN(ctx context.Context, isbn string) (catalog.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return catalog.Book{}, catalog.ErrNotFound
}

// Books returns a copy of every stored book.
func (r *MemCatalogRepo) Books() []catalog.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Book, len(r.books))
	copy(out, r.books)
	return out
}

// AuthorCount returns the number of distinct authors created.
func (r *MemCatalogRepo) AuthorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.authorsByName)
}

// AuthorName resolves an author id, "" when unknown.
func (r *MemCatalogRepo) AuthorName(id int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authorNames[id]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// MemRunsRepo implements importer.Repository in memory.
type MemRunsRepo struct {
	mu      sync.Mutex
	nextRun int
	Runs    map[string]importer.Run
}

func NewMemRunsRepo() *MemRunsRepo {
	return &MemRunsRepo{Runs: make(map[string]importer.Run)}
}

func (r *MemRunsRepo) CreateRun(ctx context.Context, run *importer.Run) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextRun++
	id := fmt.Sprintf("run-%d", r.nextRun)
	r.Runs[id] = *run
	return id, nil
}

func (r *MemRunsRepo) UpdateRun(ctx context.Context, run *importer.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Runs[run.ID] = *run
	return nil
}

// MemUserRepo implements user.Repository in memory.
type MemUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]user.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{byName: make(map[string]user.User)}
}

func (r *MemUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return user.ErrAlreadyExists
	}
	r.nextID++
	u.ID = r.nextID
	r.byName[u.Username] = *u
	return nil
}

func (r *MemUserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byName[username]; ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *MemUserRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// MemSessionRepo implements session.Repository in memory.
type MemSessionRepo struct {
	mu      sync.Mutex
	nextID  int
	byToken map[string]session.Session
}

func NewMemSessionRepo() *MemSessionRepo {
	return &MemSessionRepo{byToken: make(map[string]session.Session)}
}

func (r *MemSessionRepo) Create(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = fmt.Sprintf("sess-%d", r.nextID)
	s.CreatedAt = time.Now()
	r.byToken[s.TokenHash] = *s
	return nil
}

func (r *MemSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[tokenHash]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (r *MemSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, tokenHash)
	return nil
}

func (r *MemSessionRepo) CleanupExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, s := range r.byToken {
		if s.ExpiresAt.Before(time.Now()) {
			delete(r.byToken, k)
		}
	}
	return nil
}

// MemReviewRepo implements review.Repository in memory.
type MemReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews []review.Review
}

func NewMemReviewRepo() *MemReviewRepo {
	return &MemReviewRepo{}
}

func (r *MemReviewRepo) Create(ctx context.Context, rev *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == rev.UserID && existing.BookID == rev.BookID {
			return review.ErrAlreadyReviewed
		}
	}
	r.nextID++
	rev.ID = r.nextID
	rev.Date = time.Now()
	r.reviews = append(r.reviews, *rev)
	return nil
}

func (r *MemReviewRepo) HasReview(ctx context.Context, userID, bookID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == userID && existing.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemReviewRepo) ListByBook(ctx context.Context, bookID int64) ([]review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []review.Review
	for _, existing := range r.reviews {
		if existing.BookID == bookID {
			out = append(out, existing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *MemReviewRepo) BookStats(ctx context.Context, bookID int64) (review.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int
	for _, existing := range r.reviews {
		if existing.BookID == bookID {
			sum += existing.Rating
			count++
		}
	}
	if count == 0 {
		return review.Stats{}, nil
	}
	return review.Stats{Average: float64(sum) / float64(count), Count: count}, nil
}

// StaticRatings is a ratings gateway stub returning a fixed aggregate.
type StaticRatings struct {
	Ratings goodreads.BookRatings
	Err     error
}

func (s *StaticRatings) ReviewCounts(ctx context.Context, isbn string) (*goodreads.BookRatings, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.Ratings
	out.ISBN = isbn
	return &out, nil
}
