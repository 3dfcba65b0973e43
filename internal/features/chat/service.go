package chat

import (
	"context"
	"time"

	"assixx/internal/common/models"
	"assixx/pkg/utils"
)

type ChatService interface {
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error)
	ListConversations(ctx context.Context) ([]Conversation, error)
	GetConversation(ctx context.Context, id int64) (*Conversation, error)
	SendMessage(ctx context.Context, conversationID int64, req SendMessageRequest) (*Message, error)
	ListMessages(ctx context.Context, conversationID, limit, before int64) ([]Message, error)
}

type ChatServiceImpl struct {
	Repo ChatRepository
	Hub  *Hub
}

func NewChatService(repo ChatRepository, hub *Hub) ChatService {
	return &ChatServiceImpl{
		Repo: repo,
		Hub:  hub,
	}
}

func claimsFrom(ctx context.Context) (*utils.UserClaims, error) {
	claims, ok := utils.ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewUnauthorized("No authenticated principal")
	}
	return claims, nil
}

func (s *ChatServiceImpl) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.ParticipantIDs) == 0 {
		return nil, models.NewValidationError("participantIds must not be empty")
	}

	conv := &Conversation{
		TenantID:  claims.TenantID,
		Name:      req.Name,
		IsGroup:   len(req.ParticipantIDs) > 1,
		CreatedBy: claims.UserID,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.CreateConversation(ctx, conv, req.ParticipantIDs); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatServiceImpl) ListConversations(ctx context.Context) ([]Conversation, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListConversations(ctx, claims.TenantID, claims.UserID)
}

// GetConversation returns the conversation only to its participants.
func (s *ChatServiceImpl) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	conv, err := s.Repo.FindConversation(ctx, id, claims.TenantID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, models.NewNotFound("Conversation not found")
	}

	member, err := s.Repo.IsParticipant(ctx, id, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, models.NewNotFound("Conversation not found")
	}
	return conv, nil
}

func (s *ChatServiceImpl) SendMessage(ctx context.Context, conversationID int64, req SendMessageRequest) (*Message, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Content == "" {
		return nil, models.NewValidationError("content must not be empty")
	}
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	msg := &Message{
		ConversationID: conversationID,
		SenderID:       claims.UserID,
		Content:        req.Content,
		CreatedAt:      time.Now(),
	}
	if err := s.Repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	participants, err := s.Repo.ListParticipants(ctx, conversationID)
	if err == nil {
		s.Hub.Broadcast(participants, msg)
	}
	return msg, nil
}

func (s *ChatServiceImpl) ListMessages(ctx context.Context, conversationID, limit, before int64) ([]Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.Repo.ListMessages(ctx, conversationID, limit, before)
}
