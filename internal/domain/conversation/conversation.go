package conversation

import (
	"context"
	"time"

	"menloresearch/meteobot-server/internal/utils/idgen"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

const (
	ConversationIDPrefix = "conv"
	MessageIDPrefix      = "msg"
	publicIDLength       = 16
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is a persisted chat thread.
type Conversation struct {
	ID        uint
	PublicID  string
	Title     *string
	Metadata  map[string]string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a single user or assistant turn inside a conversation.
type Message struct {
	ID             uint
	ConversationID uint
	PublicID       string
	Content        string
	Role           Role
	Metadata       map[string]string
	CreatedAt      time.Time
}

// HasTitle reports whether the conversation already carries a non-empty title.
func (c *Conversation) HasTitle() bool {
	return c.Title != nil && *c.Title != ""
}

// NewConversation builds a conversation with a fresh public ID.
func NewConversation(ctx context.Context, title *string, metadata map[string]string) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID(ConversationIDPrefix, publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate conversation ID", err, "c0a8ff25-6dd8-4bbf-9e53-21b31e9c1f74")
	}

	conv := &Conversation{
		PublicID: publicID,
		Metadata: metadata,
	}
	if title != nil {
		trimmed := *title
		conv.Title = &trimmed
	}
	if err := conv.Validate(ctx); err != nil {
		return nil, err
	}
	return conv, nil
}

// NewMessage builds a message with a fresh public ID.
func NewMessage(ctx context.Context, conversationID uint, role Role, content string, metadata map[string]string) (*Message, error) {
	publicID, err := idgen.GenerateSecureID(MessageIDPrefix, publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate message ID", err, "8f2be6a1-4f5d-4f0a-9db3-a4f1de29c6b0")
	}

	msg := &Message{
		ConversationID: conversationID,
		PublicID:       publicID,
		Content:        content,
		Role:           role,
		Metadata:       metadata,
	}
	return msg, nil
}

// ConversationRepository persists conversations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	FindByPublicIDWithMessages(ctx context.Context, publicID string) (*Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	UpdateTitle(ctx context.Context, id uint, title string) error
	Delete(ctx context.Context, id uint) error
}

// MessageRepository persists conversation messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	// LatestByConversationID returns up to limit of the newest messages in
	// chronological order.
	LatestByConversationID(ctx context.Context, conversationID uint, limit int) ([]Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
}
