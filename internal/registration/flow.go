// Package registration implements the sign-up form: field edits, validation
// and the two-step token + multipart submission.
package registration

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/event"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

// API is the part of the remote API the form needs.
type API interface {
	ListPositions(ctx context.Context) ([]apiclient.Position, error)
	FetchToken(ctx context.Context) (string, error)
	SubmitUser(ctx context.Context, s apiclient.Submission, token string) (*apiclient.User, error)
}

// Previewer renders the inline preview of an attached photo.
type Previewer interface {
	DataURI(data []byte) (string, error)
}

// Publisher receives the registration event.
type Publisher interface {
	Publish(ctx context.Context, ev event.UserRegistered)
}

// Flow is one registration form instance.
type Flow struct {
	api      API
	rules    *validation.Rules
	events   Publisher
	previews Previewer
	logger   *logrus.Entry
	now      func() time.Time

	mu             sync.Mutex
	state          State
	draft          Draft
	touched        map[validation.Field]bool
	positions      []apiclient.Position
	positionsError string
	notice         string
}

// NewFlow creates an idle form with an empty draft. previews may be nil, in
// which case photos get no preview.
func NewFlow(api API, rules *validation.Rules, events Publisher, previews Previewer, logger *logrus.Entry) *Flow {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Flow{
		api:      api,
		rules:    rules,
		events:   events,
		previews: previews,
		logger:   logger.WithField("component", "registration"),
		now:      time.Now,
		touched:  make(map[validation.Field]bool),
	}
}

// LoadPositions fetches the selectable positions. On failure the error is
// logged and the current choices stay as they are; there is no automatic
// retry.
func (f *Flow) LoadPositions(ctx context.Context) error {
	positions, err := f.api.ListPositions(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.positionsError = MsgPositionsFailed
		f.logger.WithError(err).WithField("event", positionsLoadFailed).Warn("failed to load positions")
		return err
	}

	f.positions = positions
	f.positionsError = ""
	return nil
}

// SetField updates a text field of the draft. position_id takes the decimal
// id; anything unparsable clears the selection.
func (f *Flow) SetField(field validation.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.edit(); err != nil {
		return err
	}

	switch field {
	case validation.FieldName:
		f.draft.Name = value
	case validation.FieldEmail:
		f.draft.Email = value
	case validation.FieldPhone:
		f.draft.Phone = value
	case validation.FieldPosition:
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || id < 0 {
			id = 0
		}
		f.draft.PositionID = id
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// SetPhoto attaches p to the draft, or removes the photo when p is nil. The
// content type is sniffed from the data when it was not declared. The preview
// is rendered here once, outside the lock, and only for photos within the
// size limit.
func (f *Flow) SetPhoto(p *Photo) error {
	var photo *Photo
	if p != nil {
		photo = f.preparePhoto(*p)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.edit(); err != nil {
		return err
	}

	f.draft.Photo = photo
	return nil
}

func (f *Flow) preparePhoto(photo Photo) *Photo {
	photo.ContentType = validation.DetectContentType(photo.ContentType, photo.Data)
	if photo.Filename == "" {
		photo.Filename = defaultPhotoName
	}

	photo.Preview = ""
	if f.previews != nil && len(photo.Data) <= validation.MaxPhotoSize {
		uri, err := f.previews.DataURI(photo.Data)
		if err != nil {
			f.logger.WithError(err).Debug("no preview for photo")
		} else {
			photo.Preview = uri
		}
	}
	return &photo
}

// Touch marks a field as interacted with, which makes its error visible.
func (f *Flow) Touch(field validation.Field) error {
	if !slices.Contains(validation.Fields, field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.touched[field] = true
	return nil
}

// Submit validates the draft and, if it is valid, fetches a token and posts
// the draft with it. An invalid draft never reaches the network.
func (f *Flow) Submit(ctx context.Context) (*apiclient.User, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	for _, field := range validation.Fields {
		f.touched[field] = true
	}
	if errs := f.rules.CheckAll(f.draft.input(), f.positions); !errs.Valid() {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: %d field(s) failed", ErrInvalidDraft, len(errs))
	}

	state, err := next(f.state, actionSubmit)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = state
	f.notice = ""
	submission := f.draft.submission()
	f.mu.Unlock()

	token, err := f.api.FetchToken(ctx)
	if err != nil {
		return nil, f.fail("token", err)
	}

	user, err := f.api.SubmitUser(ctx, submission, token)
	if err != nil {
		return nil, f.fail("submit", err)
	}

	f.mu.Lock()
	f.state, _ = next(f.state, actionSucceed)
	f.draft = Draft{}
	f.touched = make(map[validation.Field]bool)
	f.notice = MsgSuccess
	f.mu.Unlock()

	f.logger.WithField("user_id", user.ID).Info("registration succeeded")

	if f.events != nil {
		f.events.Publish(ctx, event.UserRegistered{User: *user, At: f.now()})
	}

	return user, nil
}

// View returns a snapshot with errors filtered to touched fields.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.rules.CheckAll(f.draft.input(), f.positions)
	visible := validation.Errors{}
	for field, msg := range all {
		if f.touched[field] {
			visible[field] = msg
		}
	}

	return View{
		State:          f.state,
		Draft:          f.draft,
		Errors:         visible,
		Touched:        maps.Clone(f.touched),
		Positions:      slices.Clone(f.positions),
		PositionsError: f.positionsError,
		Notice:         f.notice,
		Valid:          all.Valid(),
		CanSubmit:      f.state != StateSubmitting,
	}
}

// edit applies the edit transition. Callers hold f.mu.
func (f *Flow) edit() error {
	state, err := next(f.state, actionEdit)
	if err != nil {
		return err
	}
	f.state = state
	f.notice = ""
	return nil
}

// fail moves a submission to Failed, keeping the draft for a retry.
func (f *Flow) fail(stage string, cause error) error {
	f.mu.Lock()
	f.state, _ = next(f.state, actionFail)
	f.notice = MsgFailed
	f.mu.Unlock()

	f.logger.WithError(cause).WithFields(logrus.Fields{
		"stage": stage,
		"kind":  failureKind(cause),
	}).Warn("registration failed")

	return fmt.Errorf("%w: %w", ErrSubmissionFailed, cause)
}

func failureKind(err error) string {
	var (
		netErr    *apiclient.NetworkError
		authErr   *apiclient.AuthError
		valErr    *apiclient.ValidationError
		statusErr *apiclient.StatusError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &valErr):
		return "validation"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &statusErr):
		return "status"
	default:
		return "unknown"
	}
}
