package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the registration form and position routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	form := g.Group("/registration")
	{
		form.GET("", h.Get)
		form.PATCH("", h.Update)
		form.POST("", h.Submit)
	}

	positions := g.Group("/positions")
	{
		positions.GET("", h.ListPositions)
		positions.POST("/reload", h.ReloadPositions)
	}
}
