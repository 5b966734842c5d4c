package http

import (
	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/registration"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

// UpdateFieldRequest edits one field. A nil Value leaves the field unchanged;
// an empty Value on photo removes the photo. Blur marks the field as touched.
type UpdateFieldRequest struct {
	Field string  `json:"field" binding:"required,oneof=name email phone position_id photo"`
	Value *string `json:"value"`
	Blur  bool    `json:"blur"`
}

type PositionResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PositionsResponse struct {
	Positions []PositionResponse `json:"positions"`
	Error     string             `json:"error,omitempty"`
}

type PhotoResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Preview     string `json:"preview,omitempty"`
}

type DraftResponse struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	PositionID int            `json:"position_id"`
	Photo      *PhotoResponse `json:"photo"`
}

// FormResponse is the visible state of the registration form.
type FormResponse struct {
	State     string            `json:"state"`
	Draft     DraftResponse     `json:"draft"`
	Errors    map[string]string `json:"errors"`
	Touched   []string          `json:"touched"`
	Positions PositionsResponse `json:"positions"`
	Notice    string            `json:"notice,omitempty"`
	Valid     bool              `json:"valid"`
	CanSubmit bool              `json:"can_submit"`
}

type UserResponse struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	PositionID int    `json:"position_id"`
}

// SubmitResponse is returned on a successful registration.
type SubmitResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Form    FormResponse `json:"form"`
}

// SubmitErrorResponse carries the form alongside a failed submission.
type SubmitErrorResponse struct {
	Error string       `json:"error"`
	Form  FormResponse `json:"form"`
}

func NewPositionsResponse(positions []apiclient.Position, errMsg string) PositionsResponse {
	items := make([]PositionResponse, len(positions))
	for i, p := range positions {
		items[i] = PositionResponse{ID: p.ID, Name: p.Name}
	}
	return PositionsResponse{Positions: items, Error: errMsg}
}

// NewFormResponse converts a form view to FormResponse.
func NewFormResponse(v registration.View) FormResponse {
	errs := make(map[string]string, len(v.Errors))
	for field, msg := range v.Errors {
		errs[string(field)] = msg
	}

	touched := make([]string, 0, len(v.Touched))
	for _, field := range validation.Fields {
		if v.Touched[field] {
			touched = append(touched, string(field))
		}
	}

	return FormResponse{
		State:     v.State.String(),
		Draft:     newDraftResponse(v.Draft),
		Errors:    errs,
		Touched:   touched,
		Positions: NewPositionsResponse(v.Positions, v.PositionsError),
		Notice:    v.Notice,
		Valid:     v.Valid,
		CanSubmit: v.CanSubmit,
	}
}

func newDraftResponse(d registration.Draft) DraftResponse {
	res := DraftResponse{
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		PositionID: d.PositionID,
	}
	if d.Photo != nil {
		res.Photo = &PhotoResponse{
			Filename:    d.Photo.Filename,
			ContentType: d.Photo.ContentType,
			Size:        len(d.Photo.Data),
			Preview:     d.Photo.Preview,
		}
	}
	return res
}

func NewUserResponse(u apiclient.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		PositionID: u.PositionID,
	}
}
