package chat

import (
	"assixx/internal/config"
	"assixx/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ChatApi struct {
	Controller *ChatController
	config     *config.Config
}

func NewChatApi(controller *ChatController, config *config.Config) *ChatApi {
	return &ChatApi{
		Controller: controller,
		config:     config,
	}
}

func (a *ChatApi) Setup(app *fiber.App) {
	chat := app.Group("/api/v2/chat", middleware.AuthMiddleware(a.config.SkipAuth))

	chat.Get("/conversations", a.Controller.ListConversations)
	chat.Post("/conversations", a.Controller.CreateConversation)
	chat.Get("/conversations/:id/messages", a.Controller.ListMessages)
	chat.Post("/conversations/:id/messages", a.Controller.SendMessage)

	chat.Get("/ws", websocket.New(a.Controller.HandleWebSocket))
}
