package conversationresponses

import (
	"time"

	"menloresearch/meteobot-server/internal/domain/conversation"
)

// ConversationResponse represents a conversation as returned by the API
type ConversationResponse struct {
	ID        string            `json:"id"`
	Title     *string           `json:"title,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	Messages  []MessageResponse `json:"messages,omitempty"`
}

// MessageResponse represents a single message as returned by the API
type MessageResponse struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	Content        string            `json:"content"`
	SenderType     string            `json:"sender_type"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

// TurnResponse carries the assistant reply to a posted user message
type TurnResponse struct {
	ConversationID string          `json:"conversation_id"`
	Reply          MessageResponse `json:"reply"`
}

// NewConversationResponse creates a response from a domain conversation
func NewConversationResponse(conv *conversation.Conversation) *ConversationResponse {
	resp := &ConversationResponse{
		ID:        conv.PublicID,
		Title:     conv.Title,
		Metadata:  conv.Metadata,
		CreatedAt: conv.CreatedAt.Format(time.RFC3339),
		UpdatedAt: conv.UpdatedAt.Format(time.RFC3339),
	}
	if len(conv.Messages) > 0 {
		resp.Messages = make([]MessageResponse, 0, len(conv.Messages))
		for i := range conv.Messages {
			resp.Messages = append(resp.Messages, *NewMessageResponse(conv.PublicID, &conv.Messages[i]))
		}
	}
	return resp
}

// NewConversationListResponse creates responses for a list of conversations
func NewConversationListResponse(conversations []conversation.Conversation) []ConversationResponse {
	data := make([]ConversationResponse, 0, len(conversations))
	for i := range conversations {
		data = append(data, *NewConversationResponse(&conversations[i]))
	}
	return data
}

// NewMessageResponse creates a response from a domain message
func NewMessageResponse(conversationPublicID string, msg *conversation.Message) *MessageResponse {
	return &MessageResponse{
		ID:             msg.PublicID,
		ConversationID: conversationPublicID,
		Content:        msg.Content,
		SenderType:     string(msg.Role),
		Metadata:       msg.Metadata,
		CreatedAt:      msg.CreatedAt.Format(time.RFC3339),
	}
}
