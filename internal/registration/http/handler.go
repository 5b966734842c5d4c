package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/auth"
	"github.com/nekogravitycat/signup-site/internal/pkg/apperror"
	"github.com/nekogravitycat/signup-site/internal/pkg/response"
	"github.com/nekogravitycat/signup-site/internal/registration"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

// textFields are the form keys applied from a submit post, in order.
var textFields = []validation.Field{
	validation.FieldName,
	validation.FieldEmail,
	validation.FieldPhone,
	validation.FieldPosition,
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Get returns the visitor's form.
func (h *Handler) Get(c *gin.Context) {
	sess := auth.GetSession(c)
	c.JSON(http.StatusOK, NewFormResponse(sess.Form.View()))
}

// Update edits one field of the draft.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := auth.GetSession(c)
	field := validation.Field(req.Field)

	// A missing value leaves the field as it is, so a blur only touches it.
	var err error
	switch {
	case req.Value == nil:
	case field == validation.FieldPhoto && *req.Value == "":
		err = sess.Form.SetPhoto(nil)
	case field == validation.FieldPhoto:
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo must be uploaded as multipart"})
		return
	default:
		err = sess.Form.SetField(field, *req.Value)
	}
	if err == nil && req.Blur {
		err = sess.Form.Touch(field)
	}
	if err != nil {
		response.Error(c, MapEditError(err))
		return
	}

	c.JSON(http.StatusOK, NewFormResponse(sess.Form.View()))
}

// Submit applies any posted fields and photo to the draft, then submits it.
func (h *Handler) Submit(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := ApplyForm(c, sess.Form); err != nil {
		response.Error(c, err)
		return
	}

	user, err := sess.Form.Submit(c.Request.Context())
	if err != nil {
		appErr := MapSubmitError(err)
		if appErr.Code == http.StatusConflict {
			response.Error(c, appErr)
			return
		}
		c.JSON(appErr.Code, SubmitErrorResponse{
			Error: appErr.Message,
			Form:  NewFormResponse(sess.Form.View()),
		})
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{
		Message: registration.MsgSuccess,
		User:    NewUserResponse(*user),
		Form:    NewFormResponse(sess.Form.View()),
	})
}

// ListPositions returns the selectable positions.
func (h *Handler) ListPositions(c *gin.Context) {
	sess := auth.GetSession(c)
	v := sess.Form.View()
	c.JSON(http.StatusOK, NewPositionsResponse(v.Positions, v.PositionsError))
}

// ReloadPositions fetches the positions again. A failure keeps the previous
// choices.
func (h *Handler) ReloadPositions(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := sess.Form.LoadPositions(c.Request.Context()); err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadGateway, "failed to load positions"))
		return
	}

	v := sess.Form.View()
	c.JSON(http.StatusOK, NewPositionsResponse(v.Positions, v.PositionsError))
}

// ApplyForm copies the text fields present in a form post, and the photo if
// one was uploaded, onto the draft. Fields absent from the post are left as
// they are.
func ApplyForm(c *gin.Context, form *registration.Flow) error {
	for _, field := range textFields {
		value, ok := c.GetPostForm(string(field))
		if !ok {
			continue
		}
		if err := form.SetField(field, value); err != nil {
			return MapEditError(err)
		}
	}

	photo, err := ReadPhoto(c, DefaultPhotoUpload)
	if err != nil {
		return apperror.Wrap(err, http.StatusBadRequest, "invalid photo upload")
	}
	if photo != nil {
		if err := form.SetPhoto(photo); err != nil {
			return MapEditError(err)
		}
	}
	return nil
}

// MapEditError converts a draft edit error to an AppError.
func MapEditError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, registration.ErrSubmissionInFlight):
		return apperror.New(http.StatusConflict, err.Error())
	case errors.Is(err, registration.ErrUnknownField):
		return apperror.New(http.StatusBadRequest, err.Error())
	default:
		return apperror.Wrap(err, http.StatusInternalServerError, "internal server error")
	}
}

// MapSubmitError converts a submission error to an AppError.
func MapSubmitError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, registration.ErrSubmissionInFlight):
		return apperror.New(http.StatusConflict, err.Error())
	case errors.Is(err, registration.ErrInvalidDraft):
		return apperror.New(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, new(*apiclient.ValidationError)):
		return apperror.Wrap(err, http.StatusUnprocessableEntity, registration.MsgFailed)
	default:
		return apperror.Wrap(err, http.StatusBadGateway, registration.MsgFailed)
	}
}
