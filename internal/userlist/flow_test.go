package userlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/event"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

// fakeLister serves fixed pages and records every request.
type fakeLister struct {
	mu       sync.Mutex
	pages    map[int][]apiclient.User
	total    int
	calls    []int
	err      error
	blockers map[int]chan struct{}
}

func newFakeLister(total int, pages map[int][]apiclient.User) *fakeLister {
	return &fakeLister{pages: pages, total: total, blockers: map[int]chan struct{}{}}
}

func (l *fakeLister) ListUsers(ctx context.Context, page, count int) (*apiclient.UsersPage, error) {
	l.mu.Lock()
	l.calls = append(l.calls, page)
	block := l.blockers[page]
	err := l.err
	l.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	return &apiclient.UsersPage{
		Users:      l.pages[page],
		Page:       page,
		TotalPages: l.total,
		Count:      count,
	}, nil
}

func (l *fakeLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func users(ids ...int) []apiclient.User {
	out := make([]apiclient.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, apiclient.User{ID: id})
	}
	return out
}

func ids(us []apiclient.User) []int {
	out := make([]int, 0, len(us))
	for _, u := range us {
		out = append(out, u.ID)
	}
	return out
}

func threePages() *fakeLister {
	return newFakeLister(3, map[int][]apiclient.User{
		1: users(1, 2, 3, 4, 5, 6),
		2: users(7, 8, 9, 10, 11, 12),
		3: users(13, 14),
	})
}

func TestShowMoreAccumulatesAllPages(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()

	require.NoError(t, flow.Refresh(ctx))
	require.NoError(t, flow.ShowMore(ctx))
	require.NoError(t, flow.ShowMore(ctx))

	view := flow.View()
	assert.Equal(t, 3, api.callCount())
	assert.Equal(t, []int{1, 2, 3}, api.calls)
	assert.Len(t, view.Users, 6+6+2)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, ids(view.Users))
	assert.Equal(t, 3, view.Page)
	assert.False(t, view.HasMore)
}

func TestShowMoreOnLastPageDoesNotFetch(t *testing.T) {
	api := newFakeLister(1, map[int][]apiclient.User{1: users(1, 2)})
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()

	require.NoError(t, flow.Refresh(ctx))
	err := flow.ShowMore(ctx)

	assert.ErrorIs(t, err, ErrNoMorePages)
	assert.Equal(t, 1, api.callCount())
}

func TestShowMoreBeforeFirstLoad(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)

	assert.ErrorIs(t, flow.ShowMore(context.Background()), ErrNoMorePages)
	assert.Zero(t, api.callCount())
}

func TestRefreshResetsToFirstPage(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()

	require.NoError(t, flow.Refresh(ctx))
	require.NoError(t, flow.ShowMore(ctx))
	require.NoError(t, flow.Refresh(ctx))

	view := flow.View()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(view.Users))
	assert.True(t, view.HasMore)
}

func TestEmptyResult(t *testing.T) {
	api := newFakeLister(0, map[int][]apiclient.User{})
	flow := NewFlow(api, 6, nil)

	assert.False(t, flow.View().Empty, "not empty before loading completes")

	require.NoError(t, flow.Refresh(context.Background()))

	view := flow.View()
	assert.True(t, view.Empty)
	assert.True(t, view.Loaded)
	assert.False(t, view.HasMore)
	assert.LessOrEqual(t, view.Page, view.TotalPages)
}

func TestFetchFailureKeepsList(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()

	require.NoError(t, flow.Refresh(ctx))

	api.mu.Lock()
	api.err = errors.New("connection reset")
	api.mu.Unlock()

	err := flow.ShowMore(ctx)
	require.Error(t, err)

	view := flow.View()
	assert.Equal(t, MsgLoadFailed, view.Error)
	assert.Len(t, view.Users, 6)
	assert.False(t, view.Loading)
	assert.True(t, view.HasMore, "the failed page can be retried")
}

func TestShowMoreRejectedWhileLoading(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()
	require.NoError(t, flow.Refresh(ctx))

	release := make(chan struct{})
	api.mu.Lock()
	api.blockers[2] = release
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- flow.ShowMore(ctx) }()

	require.Eventually(t, func() bool { return flow.View().Loading }, timeout, tick)
	assert.ErrorIs(t, flow.ShowMore(ctx), ErrFetchInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 2, flow.View().Page)
}

func TestRefreshSupersedesInFlightShowMore(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()
	require.NoError(t, flow.Refresh(ctx))

	release := make(chan struct{})
	api.mu.Lock()
	api.blockers[2] = release
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- flow.ShowMore(ctx) }()
	require.Eventually(t, func() bool { return api.callCount() == 2 }, timeout, tick)

	require.NoError(t, flow.Refresh(ctx))
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)

	view := flow.View()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(view.Users))
	assert.False(t, view.Loading)
}

func TestHandleUserRegisteredRefreshes(t *testing.T) {
	api := threePages()
	flow := NewFlow(api, 6, nil)
	ctx := context.Background()

	bus := event.NewBus(nil)
	bus.Subscribe(flow.HandleUserRegistered)

	require.NoError(t, flow.Refresh(ctx))
	require.NoError(t, flow.ShowMore(ctx))

	bus.Publish(ctx, event.UserRegistered{User: apiclient.User{ID: 99}})

	assert.Equal(t, []int{1, 2, 1}, api.calls)
	assert.Equal(t, 1, flow.View().Page)
}
