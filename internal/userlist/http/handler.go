package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/signup-site/internal/auth"
	"github.com/nekogravitycat/signup-site/internal/pkg/apperror"
	"github.com/nekogravitycat/signup-site/internal/pkg/response"
	"github.com/nekogravitycat/signup-site/internal/userlist"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// List returns the visitor's accumulated user list.
func (h *Handler) List(c *gin.Context) {
	sess := auth.GetSession(c)
	c.JSON(http.StatusOK, NewListResponse(sess.Users.View()))
}

// ShowMore appends the next page to the visitor's list.
func (h *Handler) ShowMore(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := sess.Users.ShowMore(c.Request.Context()); err != nil {
		if appErr := MapError(err); appErr != nil {
			response.Error(c, appErr)
			return
		}
	}

	c.JSON(http.StatusOK, NewListResponse(sess.Users.View()))
}

// Refresh resets the visitor's list to the first page.
func (h *Handler) Refresh(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := sess.Users.Refresh(c.Request.Context()); err != nil {
		if appErr := MapError(err); appErr != nil {
			response.Error(c, appErr)
			return
		}
	}

	c.JSON(http.StatusOK, NewListResponse(sess.Users.View()))
}

// MapError converts a list flow error to an AppError. A superseded fetch is
// not a failure and maps to nil.
func MapError(err error) *apperror.AppError {
	switch {
	case err == nil, errors.Is(err, userlist.ErrStale):
		return nil
	case errors.Is(err, userlist.ErrNoMorePages):
		return apperror.New(http.StatusConflict, "no more pages")
	case errors.Is(err, userlist.ErrFetchInFlight):
		return apperror.New(http.StatusConflict, "a page is already loading")
	default:
		return apperror.Wrap(err, http.StatusBadGateway, userlist.MsgLoadFailed)
	}
}
