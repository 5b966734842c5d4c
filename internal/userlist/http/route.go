package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the user list routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	users := g.Group("/users")
	{
		users.GET("", h.List)
		users.POST("/more", h.ShowMore)
		users.POST("/refresh", h.Refresh)
	}
}
