package registration

import (
	"errors"
	"fmt"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

var (
	ErrInvalidDraft       = errors.New("registration draft is invalid")
	ErrSubmissionInFlight = errors.New("a registration is already being submitted")
	ErrSubmissionFailed   = errors.New("registration failed")
	ErrUnknownField       = errors.New("unknown form field")

	errInvalidTransition = errors.New("invalid state transition")
)

const (
	MsgSuccess          = "User successfully registered"
	MsgFailed           = "Registration failed"
	MsgPositionsFailed  = "Failed to load positions"
	defaultPhotoName    = "photo.jpg"
	positionsLoadFailed = "positions_load_failed"
)

// State is the lifecycle of a form instance.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// action is an input to the state machine.
type action int

const (
	actionEdit action = iota
	actionSubmit
	actionSucceed
	actionFail
)

// next is the pure transition function of the form state machine.
func next(from State, a action) (State, error) {
	switch a {
	case actionEdit:
		if from == StateSubmitting {
			return from, ErrSubmissionInFlight
		}
		return StateIdle, nil
	case actionSubmit:
		if from == StateSubmitting {
			return from, ErrSubmissionInFlight
		}
		return StateSubmitting, nil
	case actionSucceed:
		if from != StateSubmitting {
			return from, errInvalidTransition
		}
		return StateSuccess, nil
	case actionFail:
		if from != StateSubmitting {
			return from, errInvalidTransition
		}
		return StateFailed, nil
	default:
		return from, errInvalidTransition
	}
}

// Photo is the image attached to a draft. Preview is an inline thumbnail,
// empty when none could be rendered.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
	Preview     string
}

// Draft is the in-progress registration.
type Draft struct {
	Name       string
	Email      string
	Phone      string
	PositionID int
	Photo      *Photo
}

func (d Draft) input() validation.Input {
	in := validation.Input{
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		PositionID: d.PositionID,
	}
	if d.Photo != nil {
		in.Photo = &validation.Photo{
			ContentType: d.Photo.ContentType,
			Size:        int64(len(d.Photo.Data)),
		}
	}
	return in
}

func (d Draft) submission() apiclient.Submission {
	s := apiclient.Submission{
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		PositionID: d.PositionID,
	}
	if d.Photo != nil {
		s.Photo = apiclient.Photo{
			Filename:    d.Photo.Filename,
			ContentType: d.Photo.ContentType,
			Data:        d.Photo.Data,
		}
	}
	return s
}

// View is a read-only snapshot of a form instance.
type View struct {
	State          State
	Draft          Draft
	Errors         validation.Errors
	Touched        map[validation.Field]bool
	Positions      []apiclient.Position
	PositionsError string
	Notice         string
	Valid          bool
	CanSubmit      bool
}
