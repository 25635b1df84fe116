// Package pagination accumulates the pages of a paginated API collection
// into one ordered list, the way an infinite-scroll list consumes it.
package pagination

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// FetchFunc fetches one page of a collection. Pages start at 1.
type FetchFunc[T any] func(ctx context.Context, page int) (*models.Page[T], error)

// Pager accumulates items across pages.
//
// Items are appended in server order between refreshes. At most one
// LoadNextPage runs at a time; first-page loads may overlap and the last
// one to start wins. An append that completes after a newer first-page load
// started is discarded.
type Pager[T any] struct {
	fetch  FetchFunc[T]
	logger *logrus.Logger

	mu          sync.RWMutex
	items       []T
	currentPage int
	hasNext     bool
	loading     int
	loadingMore bool
	generation  uint64
}

// New creates a Pager over fetch. Nothing is loaded until LoadFirstPage.
func New[T any](fetch FetchFunc[T], logger *logrus.Logger) *Pager[T] {
	return &Pager[T]{
		fetch:  fetch,
		logger: logger,
	}
}

// LoadFirstPage fetches page 1 and replaces the accumulated items with it.
// On error the items are left untouched.
func (p *Pager[T]) LoadFirstPage(ctx context.Context) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.loading++
	p.mu.Unlock()

	page, err := p.fetchPage(ctx, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading--

	if err != nil {
		p.logger.WithError(err).Warn("Failed to load first page")
		return err
	}
	if gen != p.generation {
		// a newer first-page load started while this one was in flight
		return nil
	}

	p.items = slices.Clone(page.Data)
	p.currentPage = pageNumber(page, 1)
	p.hasNext = page.HasNextPage()
	return nil
}

// Refresh discards the accumulated items and loads page 1 again.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	return p.LoadFirstPage(ctx)
}

// LoadNextPage fetches the page after the current one and appends its items.
// It does nothing when there is no next page or a next-page load is already
// in flight. On error the items are left untouched and nothing is retried.
func (p *Pager[T]) LoadNextPage(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasNext || p.loadingMore {
		p.mu.Unlock()
		return nil
	}
	p.loadingMore = true
	gen := p.generation
	next := p.currentPage + 1
	p.mu.Unlock()

	page, err := p.fetchPage(ctx, next)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingMore = false

	if err != nil {
		p.logger.WithError(err).WithField("page", next).Warn("Failed to load next page")
		return err
	}
	if gen != p.generation {
		p.logger.WithField("page", next).Debug("Discarding page loaded before a refresh")
		return nil
	}

	p.items = append(p.items, page.Data...)
	p.currentPage = pageNumber(page, next)
	p.hasNext = page.HasNextPage()
	return nil
}

// Items returns a copy of the accumulated items.
func (p *Pager[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.items)
}

// HasNextPage reports whether the server advertised more pages.
func (p *Pager[T]) HasNextPage() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasNext
}

// LoadingMore reports whether a next-page load is in flight.
func (p *Pager[T]) LoadingMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadingMore
}

// Loading reports whether a first-page load is in flight.
func (p *Pager[T]) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading > 0
}

// CurrentPage is the number of the last page appended, 0 before the first load.
func (p *Pager[T]) CurrentPage() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentPage
}

func (p *Pager[T]) fetchPage(ctx context.Context, n int) (*models.Page[T], error) {
	page, err := p.fetch(ctx, n)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return &models.Page[T]{}, nil
	}
	return page, nil
}

func pageNumber[T any](page *models.Page[T], requested int) int {
	if page.CurrentPage > 0 {
		return page.CurrentPage
	}
	return requested
}
