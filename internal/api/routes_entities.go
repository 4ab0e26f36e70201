package api

import (
	"github.com/gin-gonic/gin"

	"github.com/collabmatch/collabmatch/internal/handlers"
)

func registerEntityRoutes(api *gin.RouterGroup, entityHandler *handlers.EntityHandler) {
	entities := api.Group("/entities")
	{
		entities.POST("", entityHandler.Create)
		entities.GET("/:id", entityHandler.Get)
		entities.GET("/:id/members", entityHandler.ListMembers)
		entities.GET("/:id/requests", entityHandler.ListRequests)
		entities.PATCH("/:id/complete", entityHandler.Complete)
		entities.PATCH("/:id/cancel", entityHandler.Cancel)
	}
}
