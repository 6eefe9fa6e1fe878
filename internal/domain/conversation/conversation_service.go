package conversation

import (
	"context"

	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

// Service exposes conversation CRUD on top of the repositories.
type Service struct {
	convRepo ConversationRepository
	msgRepo  MessageRepository
}

func NewService(convRepo ConversationRepository, msgRepo MessageRepository) *Service {
	return &Service{
		convRepo: convRepo,
		msgRepo:  msgRepo,
	}
}

// CreateConversation creates an empty conversation, optionally titled.
func (s *Service) CreateConversation(ctx context.Context, title *string, metadata map[string]string) (*Conversation, error) {
	conv, err := NewConversation(ctx, title, metadata)
	if err != nil {
		return nil, err
	}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}
	return conv, nil
}

// GetConversation returns a conversation together with its messages.
func (s *Service) GetConversation(ctx context.Context, publicID string) (*Conversation, error) {
	conv, err := s.convRepo.FindByPublicIDWithMessages(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations returns all conversations, most recently updated first.
func (s *Service) ListConversations(ctx context.Context) ([]Conversation, error) {
	convs, err := s.convRepo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return convs, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Service) DeleteConversation(ctx context.Context, publicID string) error {
	conv, err := s.convRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.convRepo.Delete(ctx, conv.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}
