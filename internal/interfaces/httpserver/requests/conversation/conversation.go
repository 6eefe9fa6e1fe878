package conversationrequests

// CreateConversationRequest represents the request to create a conversation
type CreateConversationRequest struct {
	Title    *string           `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SendMessageRequest represents the request to post a user message into a conversation
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
