package chat

import (
	"strconv"

	common_api "assixx/internal/common/api"
	"assixx/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatController struct {
	ChatService ChatService
	Hub         *Hub
	Logger      *zap.Logger
}

func NewChatController(chatService ChatService, hub *Hub, logger *zap.Logger) *ChatController {
	return &ChatController{
		ChatService: chatService,
		Hub:         hub,
		Logger:      logger,
	}
}

// CreateConversation godoc
// @Summary      Start a conversation
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        conversation body CreateConversationRequest true "Conversation payload"
// @Success      201  {object} Conversation
// @Router       /api/v2/chat/conversations [post]
func (ctrl *ChatController) CreateConversation(c *fiber.Ctx) error {
	var req CreateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	conv, err := ctrl.ChatService.CreateConversation(c.UserContext(), req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Created(c, conv)
}

// ListConversations godoc
// @Summary      List the caller's conversations
// @Tags         chat
// @Produce      json
// @Success      200  {array} Conversation
// @Router       /api/v2/chat/conversations [get]
func (ctrl *ChatController) ListConversations(c *fiber.Ctx) error {
	conversations, err := ctrl.ChatService.ListConversations(c.UserContext())
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, conversations)
}

// SendMessage godoc
// @Summary      Send a message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        id path int true "Conversation ID"
// @Param        message body SendMessageRequest true "Message payload"
// @Success      201  {object} Message
// @Router       /api/v2/chat/conversations/{id}/messages [post]
func (ctrl *ChatController) SendMessage(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid conversation id")
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	msg, err := ctrl.ChatService.SendMessage(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Created(c, msg)
}

// ListMessages godoc
// @Summary      Page through a conversation's messages
// @Tags         chat
// @Produce      json
// @Param        id path int true "Conversation ID"
// @Param        limit query int false "Page size"
// @Param        before query int false "Exclusive upper message id"
// @Success      200  {array} Message
// @Router       /api/v2/chat/conversations/{id}/messages [get]
func (ctrl *ChatController) ListMessages(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid conversation id")
	}

	messages, err := ctrl.ChatService.ListMessages(c.UserContext(), id,
		int64(c.QueryInt("limit", 50)), int64(c.QueryInt("before", 0)))
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, messages)
}

// HandleWebSocket keeps the connection registered in the hub for the
// authenticated user. Inbound frames are ignored; sending goes through
// the REST endpoint so every message is persisted.
func (ctrl *ChatController) HandleWebSocket(conn *websocket.Conn) {
	claims, ok := conn.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		_ = conn.Close()
		return
	}

	ctrl.Hub.Register(claims.UserID, conn)
	defer func() {
		ctrl.Hub.Unregister(claims.UserID, conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
