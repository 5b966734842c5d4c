// Package userlist implements the paginated, accumulating user listing.
package userlist

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/event"
)

var (
	ErrNoMorePages   = errors.New("no more pages")
	ErrFetchInFlight = errors.New("a page fetch is already in flight")
	ErrStale         = errors.New("response superseded by a newer fetch")
)

// MsgLoadFailed is shown when a page could not be fetched.
const MsgLoadFailed = "Failed to load users"

// Lister fetches one page of users.
type Lister interface {
	ListUsers(ctx context.Context, page, count int) (*apiclient.UsersPage, error)
}

// View is a read-only snapshot of the list state.
type View struct {
	Users      []apiclient.User
	Page       int
	TotalPages int
	Loading    bool
	Loaded     bool
	HasMore    bool
	Empty      bool
	Error      string
}

// Flow owns the accumulated user list of one visitor.
//
// Every fetch is tagged with a sequence number; a response is applied only if
// its number is still the latest issued, so a refresh always wins over an
// older show-more that resolves later.
type Flow struct {
	api      Lister
	pageSize int
	logger   *logrus.Entry

	mu         sync.Mutex
	users      []apiclient.User
	page       int
	totalPages int
	loading    bool
	loaded     bool
	seq        uint64
	errMsg     string
}

// NewFlow creates an empty list flow.
func NewFlow(api Lister, pageSize int, logger *logrus.Entry) *Flow {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Flow{
		api:      api,
		pageSize: pageSize,
		logger:   logger.WithField("component", "userlist"),
	}
}

// Refresh resets the list to page 1. It supersedes any fetch in flight.
func (f *Flow) Refresh(ctx context.Context) error {
	f.mu.Lock()
	seq := f.begin()
	f.mu.Unlock()

	return f.fetch(ctx, seq, 1)
}

// ShowMore appends the next page.
func (f *Flow) ShowMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrFetchInFlight
	}
	if f.page >= f.totalPages {
		f.mu.Unlock()
		return ErrNoMorePages
	}
	next := f.page + 1
	seq := f.begin()
	f.mu.Unlock()

	return f.fetch(ctx, seq, next)
}

// HandleUserRegistered refreshes the list after a registration.
func (f *Flow) HandleUserRegistered(ctx context.Context, ev event.UserRegistered) {
	if err := f.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		f.logger.WithError(err).WithField("user_id", ev.User.ID).Warn("refresh after registration failed")
	}
}

// View returns a snapshot of the current state.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]apiclient.User, len(f.users))
	copy(users, f.users)

	return View{
		Users:      users,
		Page:       f.page,
		TotalPages: f.totalPages,
		Loading:    f.loading,
		Loaded:     f.loaded,
		HasMore:    f.page < f.totalPages,
		Empty:      f.loaded && !f.loading && len(f.users) == 0,
		Error:      f.errMsg,
	}
}

// begin issues a new sequence number. Callers hold f.mu.
func (f *Flow) begin() uint64 {
	f.seq++
	f.loading = true
	return f.seq
}

func (f *Flow) fetch(ctx context.Context, seq uint64, page int) error {
	res, err := f.api.ListUsers(ctx, page, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		f.logger.WithFields(logrus.Fields{"page": page, "seq": seq, "latest": f.seq}).Debug("discarding stale page")
		return ErrStale
	}
	f.loading = false

	if err != nil {
		f.errMsg = MsgLoadFailed
		f.logger.WithError(err).WithField("page", page).Warn("failed to fetch users page")
		return err
	}

	f.apply(page, res)
	return nil
}

// apply merges a fetched page. Pages arrive in ascending order and the API
// lists newest users first, so later pages are appended. Callers hold f.mu.
func (f *Flow) apply(requested int, res *apiclient.UsersPage) {
	page := res.Page
	if page == 0 {
		page = requested
	}

	if page == 1 {
		f.users = append([]apiclient.User(nil), res.Users...)
	} else {
		f.users = append(f.users, res.Users...)
	}

	f.page = page
	f.totalPages = res.TotalPages
	if f.totalPages < f.page {
		f.totalPages = f.page
	}
	f.loaded = true
	f.errMsg = ""
}
