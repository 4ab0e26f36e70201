package api

import (
	"github.com/gin-gonic/gin"

	"github.com/collabmatch/collabmatch/internal/handlers"
)

func registerRequestRoutes(api *gin.RouterGroup, requestHandler *handlers.RequestHandler) {
	requests := api.Group("/requests")
	{
		requests.POST("", requestHandler.Create)
		requests.GET("/:id", requestHandler.Get)
		requests.PATCH("/:id/status", requestHandler.Resolve)
	}
}
