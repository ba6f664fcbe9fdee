package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

// DirectoryAPI is what a users screen needs from the backend.
type DirectoryAPI interface {
	userLister
	userMutator
}

// ScreenConfig configures a users screen.
type ScreenConfig struct {
	PageSize int
	Debounce time.Duration
	Roles    []models.UserRole
	Clock    Clock
}

// ManagersScreen wires search input, the pager, the header stats and the mutation
// orchestrator for one users table.
type ManagersScreen struct {
	Pager        *Pager
	Orchestrator *Orchestrator

	search *Debouncer
	logger *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	stats   StatsSummary
	lastErr error
}

// NewManagersScreen builds the managers table.
func NewManagersScreen(api DirectoryAPI, cfg ScreenConfig, logger *zap.Logger) *ManagersScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	pager := NewPager(api, Query{PageSize: cfg.PageSize, Roles: cfg.Roles}, logger)
	screen := &ManagersScreen{
		Pager:        pager,
		Orchestrator: NewOrchestrator(api, pager, logger),
		logger:       logger,
		ctx:          context.Background(),
		stats:        StatsSummary{ByRole: map[models.UserRole]int{}},
	}

	var opts []DebouncerOption
	if cfg.Clock != nil {
		opts = append(opts, WithClock(cfg.Clock))
	}
	screen.search = NewDebouncer(cfg.Debounce, screen.applySearch, opts...)

	pager.OnChange(func(view PageView) {
		screen.mu.Lock()
		screen.stats = Summarize(view)
		screen.mu.Unlock()
	})
	screen.Orchestrator.OnCreated(func(*models.User) {
		screen.record(screen.Pager.Refresh(screen.context()))
	})
	return screen
}

// NewCustomersScreen builds the customers table, restricted to customer-facing roles.
func NewCustomersScreen(api DirectoryAPI, cfg ScreenConfig, logger *zap.Logger) *ManagersScreen {
	cfg.Roles = models.CustomerRoles
	return NewManagersScreen(api, cfg, logger)
}

// Open loads the first page. ctx bounds every load the screen issues until Close.
func (s *ManagersScreen) Open(ctx context.Context) (PageView, error) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	view, err := s.Pager.SetPage(ctx, 1)
	s.record(view, err)
	return view, err
}

// Type feeds a keystroke of the search box.
func (s *ManagersScreen) Type(value string) {
	s.search.Input(value)
}

// GoTo loads another page.
func (s *ManagersScreen) GoTo(page int) (PageView, error) {
	view, err := s.Pager.SetPage(s.context(), page)
	s.record(view, err)
	return view, err
}

// Stats returns the header figures for the applied page.
func (s *ManagersScreen) Stats() StatsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Err returns the last load error, shown as an inline banner with a retry action.
func (s *ManagersScreen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Retry reloads the current query.
func (s *ManagersScreen) Retry() (PageView, error) {
	view, err := s.Pager.Refresh(s.context())
	s.record(view, err)
	return view, err
}

// Close discards pending search input.
func (s *ManagersScreen) Close() {
	s.search.Stop()
}

func (s *ManagersScreen) applySearch(value string) {
	s.record(s.Pager.SetSearch(s.context(), value))
}

func (s *ManagersScreen) record(_ PageView, err error) {
	if errors.Is(err, ErrSuperseded) {
		return
	}
	if err != nil {
		s.logger.Warn("users page load failed", zap.Error(err))
	}
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *ManagersScreen) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}
