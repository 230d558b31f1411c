package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
)

func runChatRouter(secure *echo.Group, ctrl *controllers.ChatController) {
	secure.GET("/chat/conversations", ctrl.GetConversations)
	secure.GET("/chat/messages/:userId", ctrl.GetMessages)
	secure.POST("/chat/messages", ctrl.SendMessage)
	secure.POST("/chat/messages/:userId/read", ctrl.MarkMessagesAsRead)
}
