package page

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/auth"
	"github.com/nekogravitycat/signup-site/internal/registration"
	regHttp "github.com/nekogravitycat/signup-site/internal/registration/http"
	"github.com/nekogravitycat/signup-site/internal/userlist"
	userHttp "github.com/nekogravitycat/signup-site/internal/userlist/http"
)

const templateName = "index.html"

// Data is what the landing page template renders.
type Data struct {
	Users userHttp.ListResponse
	Form  regHttp.FormResponse
}

type Handler struct {
	logger *logrus.Entry
}

func NewHandler(logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{logger: logger.WithField("component", "page")}
}

// Index renders the user list and the sign-up form of the visitor. Loads
// that failed when the session was mounted are retried, the way reloading
// the page mounts it again.
func (h *Handler) Index(c *gin.Context) {
	sess := auth.GetSession(c)
	ctx := c.Request.Context()

	if users := sess.Users.View(); !users.Loaded && !users.Loading {
		if err := sess.Users.Refresh(ctx); err != nil && !errors.Is(err, userlist.ErrStale) {
			h.logger.WithError(err).Debug("user list still unavailable")
		}
	}
	if sess.Form.View().PositionsError != "" {
		if err := sess.Form.LoadPositions(ctx); err != nil {
			h.logger.WithError(err).Debug("positions still unavailable")
		}
	}

	c.HTML(http.StatusOK, templateName, Data{
		Users: userHttp.NewListResponse(sess.Users.View()),
		Form:  regHttp.NewFormResponse(sess.Form.View()),
	})
}

// ShowMore loads the next page and returns to the list.
func (h *Handler) ShowMore(c *gin.Context) {
	sess := auth.GetSession(c)

	err := sess.Users.ShowMore(c.Request.Context())
	if err != nil &&
		!errors.Is(err, userlist.ErrStale) &&
		!errors.Is(err, userlist.ErrNoMorePages) &&
		!errors.Is(err, userlist.ErrFetchInFlight) {
		// The list view carries the failure message.
		h.logger.WithError(err).Debug("show more failed")
	}

	c.Redirect(http.StatusSeeOther, "/#users")
}

// Refresh reloads the first page of users and returns to the list.
func (h *Handler) Refresh(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := sess.Users.Refresh(c.Request.Context()); err != nil && !errors.Is(err, userlist.ErrStale) {
		h.logger.WithError(err).Debug("refresh failed")
	}

	c.Redirect(http.StatusSeeOther, "/#users")
}

// ReloadPositions fetches the positions again and returns to the form. The
// draft is left untouched.
func (h *Handler) ReloadPositions(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := sess.Form.LoadPositions(c.Request.Context()); err != nil {
		h.logger.WithError(err).Debug("positions reload failed")
	}

	c.Redirect(http.StatusSeeOther, "/#signup")
}

// Register applies the posted form and submits it. The outcome is shown by
// the form notice after the redirect.
func (h *Handler) Register(c *gin.Context) {
	sess := auth.GetSession(c)

	if err := regHttp.ApplyForm(c, sess.Form); err != nil {
		h.logger.WithError(err).Debug("form post not applied")
		c.Redirect(http.StatusSeeOther, "/#signup")
		return
	}

	if _, err := sess.Form.Submit(c.Request.Context()); err != nil {
		if !errors.Is(err, registration.ErrInvalidDraft) && !errors.Is(err, registration.ErrSubmissionInFlight) {
			h.logger.WithError(err).Debug("registration not completed")
		}
	}

	c.Redirect(http.StatusSeeOther, "/#signup")
}

// RegisterRoutes registers the page routes.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/", h.Index)
	r.POST("/more", h.ShowMore)
	r.POST("/refresh", h.Refresh)
	r.POST("/positions/reload", h.ReloadPositions)
	r.POST("/register", h.Register)
}
