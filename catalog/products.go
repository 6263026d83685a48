// Package catalog loads the product listing the assistant talks about, one
// page at a time, with an offline cache of pages already seen.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/valeriapadilla/ChatBot-Ecommerce/api"
)

// Product mirrors the backend's product record.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Features string  `json:"features"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Category string  `json:"category"`
	InStock  bool    `json:"inStock"`
}

// TokenSource supplies the bearer token for the listing request.
type TokenSource interface {
	Token() (string, bool)
}

// Store accumulates product pages. hasMore uses the full-page heuristic:
// a short page means the listing is exhausted.
type Store struct {
	mu       sync.Mutex
	client   *api.Client
	tokens   TokenSource
	cache    *Cache
	pageSize int

	products []Product
	page     int
	hasMore  bool
	loading  bool
	lastErr  string
}

// NewStore creates a product store. cache may be nil to disable the offline
// fallback.
func NewStore(client *api.Client, tokens TokenSource, cache *Cache, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Store{
		client:   client,
		tokens:   tokens,
		cache:    cache,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// LoadMore fetches the next page and appends it. No-op when exhausted, while
// a load is in flight, or when unauthenticated.
func (s *Store) LoadMore(ctx context.Context) error {
	token, ok := s.tokens.Token()
	if !ok {
		return nil
	}

	s.mu.Lock()
	if !s.hasMore || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.lastErr = ""
	offset := s.page * s.pageSize
	s.mu.Unlock()

	var page []Product
	err := s.client.Get(ctx, fmt.Sprintf("%s?limit=%d&offset=%d", api.RouteProducts, s.pageSize, offset), token, &page)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		// Fall back to the cached copy of this page when the network is down
		if api.KindOf(err) == api.ErrNetwork && s.cache != nil {
			if cached, cacheErr := s.cache.GetPage(offset, s.pageSize); cacheErr == nil && len(cached) > 0 {
				s.apply(offset, cached)
				return nil
			}
		}
		s.lastErr = api.MessageOf(err)
		return err
	}

	if s.cache != nil {
		_ = s.cache.PutPage(offset, page)
	}

	s.apply(offset, page)
	return nil
}

// apply appends a page and advances pagination state. Caller holds s.mu.
func (s *Store) apply(offset int, page []Product) {
	if offset == 0 {
		s.products = append([]Product(nil), page...)
	} else {
		s.products = append(s.products, page...)
	}
	s.page++
	s.hasMore = len(page) == s.pageSize
}

// Reset discards loaded products and pagination state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.page = 0
	s.hasMore = true
	s.lastErr = ""
}

// Products returns a copy of the loaded listing.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product(nil), s.products...)
}

// HasMore reports whether more pages may exist.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Err returns the transient error message from the last failed load.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
