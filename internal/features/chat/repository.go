package chat

import (
	"context"
	"database/sql"
	"strings"

	"assixx/internal/database"
)

type ChatRepository interface {
	CreateConversation(ctx context.Context, conv *Conversation, participantIDs []int64) error
	FindConversation(ctx context.Context, id, tenantID int64) (*Conversation, error)
	ListConversations(ctx context.Context, tenantID, userID int64) ([]Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
	ListParticipants(ctx context.Context, conversationID int64) ([]int64, error)

	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID int64, limit, before int64) ([]Message, error)
}

type ChatRepositoryImpl struct {
	db *database.SQLDB
}

func NewChatRepository(db *database.SQLDB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

// CreateConversation inserts the conversation and all participant rows
// atomically. The creator is always a participant.
func (r *ChatRepositoryImpl) CreateConversation(ctx context.Context, conv *Conversation, participantIDs []int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		insert := `
			INSERT INTO chat_conversations (tenant_id, name, is_group, created_by, created_at)
			VALUES (?, ?, ?, ?, ?)
		`
		id, err := r.db.InsertReturningID(ctx, tx, insert,
			conv.TenantID, conv.Name, conv.IsGroup, conv.CreatedBy, conv.CreatedAt)
		if err != nil {
			return err
		}
		conv.ID = id

		members := map[int64]bool{conv.CreatedBy: true}
		for _, id := range participantIDs {
			members[id] = true
		}

		values := strings.TrimSuffix(strings.Repeat("(?, ?),", len(members)), ",")
		insertMembers := r.db.Rebind(`INSERT INTO chat_participants (conversation_id, user_id) VALUES ` + values)
		args := make([]interface{}, 0, len(members)*2)
		for userID := range members {
			args = append(args, conv.ID, userID)
		}
		_, err = tx.ExecContext(ctx, insertMembers, args...)
		return err
	})
}

func (r *ChatRepositoryImpl) FindConversation(ctx context.Context, id, tenantID int64) (*Conversation, error) {
	query := r.db.Rebind(`
		SELECT id, tenant_id, name, is_group, created_by, created_at
		FROM chat_conversations
		WHERE id = ? AND tenant_id = ?
	`)
	var conv Conversation
	err := r.db.DB.QueryRowContext(ctx, query, id, tenantID).
		Scan(&conv.ID, &conv.TenantID, &conv.Name, &conv.IsGroup, &conv.CreatedBy, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ChatRepositoryImpl) ListConversations(ctx context.Context, tenantID, userID int64) ([]Conversation, error) {
	query := r.db.Rebind(`
		SELECT c.id, c.tenant_id, c.name, c.is_group, c.created_by, c.created_at
		FROM chat_conversations c
		JOIN chat_participants p ON p.conversation_id = c.id
		WHERE c.tenant_id = ? AND p.user_id = ?
		ORDER BY c.created_at DESC
	`)
	rows, err := r.db.DB.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []Conversation{}
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(&conv.ID, &conv.TenantID, &conv.Name, &conv.IsGroup, &conv.CreatedBy, &conv.CreatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func (r *ChatRepositoryImpl) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM chat_participants WHERE conversation_id = ? AND user_id = ?`)
	var count int64
	if err := r.db.DB.QueryRowContext(ctx, query, conversationID, userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ChatRepositoryImpl) ListParticipants(ctx context.Context, conversationID int64) ([]int64, error) {
	query := r.db.Rebind(`SELECT user_id FROM chat_participants WHERE conversation_id = ?`)
	rows, err := r.db.DB.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ChatRepositoryImpl) CreateMessage(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO chat_messages (conversation_id, sender_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.InsertReturningID(ctx, r.db.DB, query, m.ConversationID, m.SenderID, m.Content, m.CreatedAt)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// ListMessages pages backwards: before is a message id acting as an
// exclusive upper bound, 0 means newest.
func (r *ChatRepositoryImpl) ListMessages(ctx context.Context, conversationID int64, limit, before int64) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT m.id, m.conversation_id, m.sender_id, u.username, m.content, m.created_at
		FROM chat_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = ?`
	args := []interface{}{conversationID}
	if before > 0 {
		query += ` AND m.id < ?`
		args = append(args, before)
	}
	query += ` ORDER BY m.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
