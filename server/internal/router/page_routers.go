package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/coinboard/server/internal/handler"
)

func registerPageRoutes(router *gin.RouterGroup, pageHandler *handler.PageHandler) {
	router.GET("/", pageHandler.List)
	router.GET("/coin/:coinId", pageHandler.Coin)

	router.POST("/theme/toggle", pageHandler.ToggleTheme)
	router.POST("/lang/:code", pageHandler.SetLanguage)
}
