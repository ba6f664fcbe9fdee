package directory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

// gatedLister holds responses for gated pages until released, ignoring cancellation,
// so tests can deliver responses in any order.
type gatedLister struct {
	users []models.User

	mu      sync.Mutex
	gates   map[int]chan struct{}
	started map[int]chan struct{}
	ctxs    map[int]context.Context
}

func newGatedLister(n int, gatedPages ...int) *gatedLister {
	l := &gatedLister{
		users:   makeUsers(n),
		gates:   map[int]chan struct{}{},
		started: map[int]chan struct{}{},
		ctxs:    map[int]context.Context{},
	}
	for _, page := range gatedPages {
		l.gates[page] = make(chan struct{})
		l.started[page] = make(chan struct{})
	}
	return l
}

func (l *gatedLister) ListUsers(ctx context.Context, q Query) (*models.UserPage, error) {
	l.mu.Lock()
	gate, started := l.gates[q.Page], l.started[q.Page]
	l.ctxs[q.Page] = ctx
	l.mu.Unlock()

	if gate != nil {
		close(started)
		<-gate
	}

	start := (q.Page - 1) * q.PageSize
	if start > len(l.users) {
		start = len(l.users)
	}
	end := start + q.PageSize
	if end > len(l.users) {
		end = len(l.users)
	}
	return &models.UserPage{
		Page:     q.Page,
		Total:    len(l.users),
		LastPage: models.LastPage(len(l.users), q.PageSize),
		Users:    l.users[start:end],
	}, nil
}

// hold gates page from the next call on.
func (l *gatedLister) hold(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gates[page] = make(chan struct{})
	l.started[page] = make(chan struct{})
}

func (l *gatedLister) ctx(page int) context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctxs[page]
}

type listerFunc func(ctx context.Context, q Query) (*models.UserPage, error)

func (f listerFunc) ListUsers(ctx context.Context, q Query) (*models.UserPage, error) {
	return f(ctx, q)
}

func TestPagerFirstPage(t *testing.T) {
	client := newMemoryDirectory(23).start(t)
	pager := NewPager(client, Query{}, nil)

	view, err := pager.Load(context.Background(), Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, view.Records, 10)
	assert.Equal(t, 23, view.Total)
	assert.Equal(t, 3, view.TotalPages)

	view, err = pager.SetPage(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, view.Records, 3)
	assert.Equal(t, int64(21), view.Records[0].ID)
}

func TestPagerFewerRecordsThanPageSize(t *testing.T) {
	client := newMemoryDirectory(4).start(t)
	pager := NewPager(client, Query{PageSize: 10}, nil)

	view, err := pager.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.Records, 4)
	assert.Equal(t, 1, view.TotalPages)
}

func TestPagerEmptySearchIsNotAnError(t *testing.T) {
	client := newMemoryDirectory(5).start(t)
	pager := NewPager(client, Query{}, nil)

	view, err := pager.SetSearch(context.Background(), "nobody-matches")
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Equal(t, 0, view.Total)
	assert.Equal(t, 1, view.TotalPages)
}

func TestPagerLateResponseDoesNotOverwriteNewerPage(t *testing.T) {
	lister := newGatedLister(25, 1)
	pager := NewPager(lister, Query{PageSize: 10}, nil)

	type result struct {
		view PageView
		err  error
	}
	first := make(chan result, 1)
	go func() {
		view, err := pager.SetPage(context.Background(), 1)
		first <- result{view, err}
	}()
	<-lister.started[1]

	second, err := pager.SetPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Page)

	close(lister.gates[1])
	late := <-first
	assert.ErrorIs(t, late.err, ErrSuperseded)

	current, ok := pager.Current()
	require.True(t, ok)
	assert.Equal(t, 2, current.Page)
	assert.Equal(t, int64(11), current.Records[0].ID)
}

func TestPagerCancelsSupersededLoad(t *testing.T) {
	lister := newGatedLister(25, 1)
	pager := NewPager(lister, Query{PageSize: 10}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := pager.SetPage(context.Background(), 1)
		done <- err
	}()
	<-lister.started[1]

	_, err := pager.SetPage(context.Background(), 2)
	require.NoError(t, err)

	select {
	case <-lister.ctx(1).Done():
	case <-time.After(time.Second):
		t.Fatal("superseded load was not cancelled")
	}
	close(lister.gates[1])
	assert.True(t, errors.Is(<-done, ErrSuperseded))
}

func TestPagerRemoveAndListeners(t *testing.T) {
	client := newMemoryDirectory(11).start(t)
	pager := NewPager(client, Query{}, nil)

	var views []PageView
	pager.OnChange(func(view PageView) { views = append(views, view) })

	_, err := pager.Refresh(context.Background())
	require.NoError(t, err)

	assert.True(t, pager.Remove(3))
	assert.False(t, pager.Remove(3))

	current, _ := pager.Current()
	assert.Len(t, current.Records, 9)
	assert.Equal(t, 10, current.Total)
	assert.Equal(t, 1, current.TotalPages)
	for _, user := range current.Records {
		assert.NotEqual(t, int64(3), user.ID)
	}
	require.Len(t, views, 2)
	assert.Len(t, views[0].Records, 10)
	assert.Len(t, views[1].Records, 9)
}

func TestPagerRemoveSupersedesInFlightLoad(t *testing.T) {
	lister := newGatedLister(5)
	pager := NewPager(lister, Query{PageSize: 10}, nil)
	_, err := pager.Load(context.Background(), Query{Page: 1, PageSize: 10})
	require.NoError(t, err)

	lister.hold(1)
	done := make(chan error, 1)
	go func() {
		_, err := pager.Refresh(context.Background())
		done <- err
	}()
	<-lister.started[1]

	require.True(t, pager.Remove(1))
	close(lister.gates[1])
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.ErrorIs(t, lister.ctx(1).Err(), context.Canceled)

	view, ok := pager.Current()
	require.True(t, ok)
	assert.Equal(t, 4, view.Total)
	require.Len(t, view.Records, 4)
	for _, user := range view.Records {
		assert.NotEqual(t, int64(1), user.ID)
	}
}

func TestPagerDeadlineMessage(t *testing.T) {
	pager := NewPager(listerFunc(func(ctx context.Context, q Query) (*models.UserPage, error) {
		return nil, context.DeadlineExceeded
	}), Query{}, nil)

	_, err := pager.Refresh(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "The server took too long to respond", DisplayMessage(err))
}

func TestPagerRequestError(t *testing.T) {
	client := newMemoryDirectory(3).start(t)
	anonymous := client.WithSession(Session{})
	pager := NewPager(anonymous, Query{}, nil)

	_, err := pager.Refresh(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "missing or invalid token", DisplayMessage(err))

	_, loaded := pager.Current()
	assert.False(t, loaded)
}
