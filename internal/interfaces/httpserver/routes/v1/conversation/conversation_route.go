package conversation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"menloresearch/meteobot-server/internal/domain/chat"
	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/infrastructure/metrics"
	conversationrequests "menloresearch/meteobot-server/internal/interfaces/httpserver/requests/conversation"
	"menloresearch/meteobot-server/internal/interfaces/httpserver/responses"
	conversationresponses "menloresearch/meteobot-server/internal/interfaces/httpserver/responses/conversation"
	"menloresearch/meteobot-server/internal/utils/idgen"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

type ConversationRoute struct {
	conversationService *conversation.Service
	turnService         *chat.TurnService
}

func NewConversationRoute(
	conversationService *conversation.Service,
	turnService *chat.TurnService,
) *ConversationRoute {
	return &ConversationRoute{
		conversationService: conversationService,
		turnService:         turnService,
	}
}

func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.GET("", route.listConversations)
	conversations.POST("", route.createConversation)
	conversations.GET("/:conv_public_id", route.getConversation)
	conversations.DELETE("/:conv_public_id", route.deleteConversation)
	conversations.POST("/:conv_public_id/messages", route.sendMessage)
}

// listConversations godoc
// @Summary List conversations
// @Description List all conversations, most recently updated first.
// @Tags Conversations API
// @Produce json
// @Success 200 {object} responses.Envelope "Successfully retrieved conversations"
// @Failure 500 {object} responses.Envelope "Internal server error"
// @Router /v1/conversations [get]
func (route *ConversationRoute) listConversations(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	convs, err := route.conversationService.ListConversations(ctx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list conversations")
		return
	}

	responses.Respond(reqCtx, http.StatusOK, conversationresponses.NewConversationListResponse(convs))
}

// createConversation godoc
// @Summary Create a conversation
// @Description Create an empty conversation, optionally titled.
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param request body conversationrequests.CreateConversationRequest true "Conversation to create"
// @Success 201 {object} responses.Envelope "Successfully created conversation"
// @Failure 400 {object} responses.Envelope "Invalid request body"
// @Failure 500 {object} responses.Envelope "Internal server error"
// @Router /v1/conversations [post]
func (route *ConversationRoute) createConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req conversationrequests.CreateConversationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "0f1c7a84-b9a4-4c87-8a35-4d6c2a90f1be")
		return
	}

	conv, err := route.conversationService.CreateConversation(ctx, req.Title, req.Metadata)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create conversation")
		return
	}

	metrics.ConversationsCreatedTotal.Inc()
	responses.Respond(reqCtx, http.StatusCreated, conversationresponses.NewConversationResponse(conv))
}

// getConversation godoc
// @Summary Get a conversation
// @Description Get a conversation with its messages in chronological order.
// @Tags Conversations API
// @Produce json
// @Param conv_public_id path string true "Conversation public ID"
// @Success 200 {object} responses.Envelope "Successfully retrieved conversation"
// @Failure 400 {object} responses.Envelope "Invalid conversation ID"
// @Failure 404 {object} responses.Envelope "Conversation not found"
// @Failure 500 {object} responses.Envelope "Internal server error"
// @Router /v1/conversations/{conv_public_id} [get]
func (route *ConversationRoute) getConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	publicID, ok := route.conversationPublicID(reqCtx)
	if !ok {
		return
	}

	conv, err := route.conversationService.GetConversation(ctx, publicID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get conversation")
		return
	}

	responses.Respond(reqCtx, http.StatusOK, conversationresponses.NewConversationResponse(conv))
}

// deleteConversation godoc
// @Summary Delete a conversation
// @Description Delete a conversation together with all of its messages.
// @Tags Conversations API
// @Produce json
// @Param conv_public_id path string true "Conversation public ID"
// @Success 200 {object} responses.Envelope "Successfully deleted conversation"
// @Failure 400 {object} responses.Envelope "Invalid conversation ID"
// @Failure 404 {object} responses.Envelope "Conversation not found"
// @Failure 500 {object} responses.Envelope "Internal server error"
// @Router /v1/conversations/{conv_public_id} [delete]
func (route *ConversationRoute) deleteConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	publicID, ok := route.conversationPublicID(reqCtx)
	if !ok {
		return
	}

	if err := route.conversationService.DeleteConversation(ctx, publicID); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete conversation")
		return
	}

	responses.RespondMessage(reqCtx, http.StatusOK, "conversation deleted")
}

// sendMessage godoc
// @Summary Send a message
// @Description Post a user message into a conversation and receive the assistant reply.
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param conv_public_id path string true "Conversation public ID"
// @Param request body conversationrequests.SendMessageRequest true "Message to send"
// @Success 201 {object} responses.Envelope "Assistant reply"
// @Failure 400 {object} responses.Envelope "Invalid request"
// @Failure 404 {object} responses.Envelope "Conversation not found"
// @Failure 500 {object} responses.Envelope "Internal server error"
// @Router /v1/conversations/{conv_public_id}/messages [post]
func (route *ConversationRoute) sendMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	publicID, ok := route.conversationPublicID(reqCtx)
	if !ok {
		return
	}

	var req conversationrequests.SendMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "message content is required", "5b8e2d61-3c0f-4f7a-b1de-9a47c08e52f3")
		return
	}

	reply, err := route.turnService.SendMessage(ctx, publicID, req.Content)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process message")
		return
	}

	responses.Respond(reqCtx, http.StatusCreated, conversationresponses.TurnResponse{
		ConversationID: publicID,
		Reply:          *conversationresponses.NewMessageResponse(publicID, reply),
	})
}

func (route *ConversationRoute) conversationPublicID(reqCtx *gin.Context) (string, bool) {
	publicID := reqCtx.Param("conv_public_id")
	if !idgen.ValidateIDFormat(publicID, conversation.ConversationIDPrefix) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid conversation ID", "e6f9ab52-7d14-4c3b-9ed0-1b2a83c45f67")
		return "", false
	}
	return publicID, true
}
