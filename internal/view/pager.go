package view

import (
	"context"
	"sync"
	"time"

	"github.com/and161185/syncads/internal/delay"
	"github.com/and161185/syncads/internal/model"
)

// PageSize is how many rows each page reveals.
const PageSize = 6

// Pager is the "load more" cursor over a filtered list.
type Pager struct {
	mu      sync.Mutex
	size    int
	visible int
	loading bool
	delay   time.Duration
}

// NewPager starts with one page visible. size <= 0 means PageSize.
func NewPager(size int, loadDelay time.Duration) *Pager {
	if size <= 0 {
		size = PageSize
	}
	return &Pager{size: size, visible: size, delay: loadDelay}
}

// Visible returns the cursor.
func (p *Pager) Visible() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Loading reports whether a LoadMore is pending.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Page returns the visible prefix of list.
func (p *Pager) Page(list []model.Campaign) []model.Campaign {
	n := min(p.Visible(), len(list))
	return list[:n:n]
}

// CanLoadMore reports whether rows beyond the cursor exist.
func (p *Pager) CanLoadMore(total int) bool {
	return p.Visible() < total
}

// LoadMore waits the load delay and grows the cursor by one page. A call
// while another is pending is a no-op. Cancelling ctx leaves the cursor as is.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	p.mu.Unlock()

	err := delay.Wait(ctx, p.delay)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		return err
	}
	p.visible += p.size
	return nil
}

// Reset shows a single page again, e.g. after the filter changed.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = p.size
}
