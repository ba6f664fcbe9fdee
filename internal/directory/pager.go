package directory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

// PageView is the page of users currently rendered by a table.
type PageView struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Search     string
	Records    []models.User
}

// Empty reports whether the page has no rows. An empty page is a normal outcome.
func (v PageView) Empty() bool {
	return len(v.Records) == 0
}

func (v PageView) clone() PageView {
	v.Records = append([]models.User(nil), v.Records...)
	return v
}

type userLister interface {
	ListUsers(ctx context.Context, q Query) (*models.UserPage, error)
}

// Pager owns the current page of a table. Loads may overlap; only the most recently
// issued one is applied, and issuing a load cancels the previous in-flight one.
type Pager struct {
	source userLister
	logger *zap.Logger

	mu        sync.Mutex
	seq       uint64
	cancel    context.CancelFunc
	query     Query
	view      PageView
	loaded    bool
	version   uint64
	listeners []func(PageView)

	notifyMu     sync.Mutex
	lastNotified uint64
}

// NewPager builds a pager over source using base as the initial query.
func NewPager(source userLister, base Query, logger *zap.Logger) *Pager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager{source: source, logger: logger, query: base.normalise()}
}

// OnChange registers a listener called after every applied page and local removal.
func (p *Pager) OnChange(fn func(PageView)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Query returns the query of the most recently issued load.
func (p *Pager) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Current returns the applied page, and false before the first successful load.
func (p *Pager) Current() (PageView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view.clone(), p.loaded
}

// Load fetches q and applies it if no newer load was issued meanwhile.
// A discarded result returns ErrSuperseded.
func (p *Pager) Load(ctx context.Context, q Query) (PageView, error) {
	q = q.normalise()
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.seq++
	seq := p.seq
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.query = q
	p.mu.Unlock()

	page, err := p.source.ListUsers(ctx, q)
	cancel()

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		p.logger.Debug("discarding superseded page", zap.Uint64("seq", seq), zap.Int("page", q.Page))
		return PageView{}, ErrSuperseded
	}
	p.cancel = nil
	if err != nil {
		p.mu.Unlock()
		return PageView{}, asRequestError("list users", err, "Failed to load users")
	}

	view := PageView{
		Page:       page.Page,
		PageSize:   q.PageSize,
		Total:      page.Total,
		TotalPages: page.LastPage,
		Search:     q.Search,
		Records:    append([]models.User(nil), page.Users...),
	}
	if view.Page < 1 {
		view.Page = q.Page
	}
	if view.TotalPages < 1 {
		view.TotalPages = models.LastPage(view.Total, view.PageSize)
	}
	version := p.apply(view)
	p.mu.Unlock()

	p.notify(version, view)
	return view.clone(), nil
}

// SetPage loads another page of the current query.
func (p *Pager) SetPage(ctx context.Context, page int) (PageView, error) {
	q := p.Query()
	q.Page = page
	return p.Load(ctx, q)
}

// SetSearch loads page 1 for a new search text.
func (p *Pager) SetSearch(ctx context.Context, search string) (PageView, error) {
	q := p.Query()
	q.Page = 1
	q.Search = search
	return p.Load(ctx, q)
}

// Refresh reloads the current query.
func (p *Pager) Refresh(ctx context.Context) (PageView, error) {
	return p.Load(ctx, p.Query())
}

// Remove drops a record from the applied page without refetching.
// A load still in flight was issued before the removal and is superseded.
// It reports false when the record is not on the page.
func (p *Pager) Remove(id int64) bool {
	p.mu.Lock()
	if p.cancel != nil {
		p.seq++
		p.cancel()
		p.cancel = nil
		p.logger.Debug("superseding in-flight load after removal", zap.Int64("user_id", id))
	}
	index := -1
	for i, user := range p.view.Records {
		if user.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		p.mu.Unlock()
		return false
	}

	view := p.view.clone()
	view.Records = append(view.Records[:index], view.Records[index+1:]...)
	if view.Total > 0 {
		view.Total--
	}
	view.TotalPages = models.LastPage(view.Total, view.PageSize)
	version := p.apply(view)
	p.mu.Unlock()

	p.notify(version, view)
	return true
}

// apply must be called with p.mu held.
func (p *Pager) apply(view PageView) uint64 {
	p.view = view
	p.loaded = true
	p.version++
	return p.version
}

func (p *Pager) notify(version uint64, view PageView) {
	p.mu.Lock()
	listeners := append(([]func(PageView))(nil), p.listeners...)
	p.mu.Unlock()

	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	if version <= p.lastNotified {
		return
	}
	p.lastNotified = version
	for _, fn := range listeners {
		fn(view.clone())
	}
}
