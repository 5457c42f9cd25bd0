// Package goodreads fetches third-party aggregate rating counts by ISBN
// from a Goodreads-style review_counts endpoint.
package goodreads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

var ErrNoRatings = errors.New("no ratings found for isbn")

type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(baseURL, key string, rps int, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		key:        key,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// BookRatings matches one entry of the review_counts.json books list.
// Goodreads serves average_rating as a string ("4.25").
type BookRatings struct {
	ISBN          string `json:"isbn"`
	ISBN13        string `json:"isbn13"`
	RatingsCount  int    `json:"ratings_count"`
	ReviewsCount  int    `json:"reviews_count"`
	AverageRating string `json:"average_rating"`
}

type reviewCountsResponse struct {
	Books []BookRatings `json:"books"`
}

// ReviewCounts returns the third-party aggregate for one ISBN.
func (c *Client) ReviewCounts(ctx context.Context, isbn string) (*BookRatings, error) {
	u := fmt.Sprintf("%s/book/review_counts.json?key=%s&isbns=%s",
		c.baseURL, url.QueryEscape(c.key), url.QueryEscape(isbn))

	var res reviewCountsResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	if len(res.Books) == 0 {
		return nil, ErrNoRatings
	}
	return &res.Books[0], nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
