package inference

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sashabaranov/go-openai"

	"menloresearch/meteobot-server/internal/domain/chat"
	"menloresearch/meteobot-server/internal/infrastructure/metrics"
	"menloresearch/meteobot-server/internal/utils/functional"
	chatclient "menloresearch/meteobot-server/internal/utils/httpclients/chat"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

// Config tunes the completion requests sent to the provider.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIClient implements chat.CompletionClient against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	wire *chatclient.ChatCompletionClient
	cfg  Config
}

var _ chat.CompletionClient = (*OpenAIClient)(nil)

func NewOpenAIClient(wire *chatclient.ChatCompletionClient, cfg Config) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &OpenAIClient{wire: wire, cfg: cfg}
}

// Complete implements chat.CompletionClient.
func (c *OpenAIClient) Complete(ctx context.Context, userMessage string, history []chat.Snippet) (*chat.Completion, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    c.buildMessages(userMessage, history),
		Tools:       weatherTools(),
		ToolChoice:  "auto",
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	return c.send(ctx, request)
}

// CompleteWithToolResult implements chat.CompletionClient. The tool call and
// its JSON-encoded result are appended after the original message window; no
// tools are offered so the model must answer in natural language.
func (c *OpenAIClient) CompleteWithToolResult(ctx context.Context, userMessage string, toolResult chat.ToolResult, history []chat.Snippet) (*chat.Completion, error) {
	resultJSON, err := json.Marshal(toolResult.Result)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"failed to encode tool result", err, "7d25c9f3-50e4-4be2-b7a8-3e6f2c4d1a09")
	}

	messages := c.buildMessages(userMessage, history)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{
			{
				ID:   toolResult.Call.ID,
				Type: openai.ToolType(toolResult.Call.Type),
				Function: openai.FunctionCall{
					Name:      toolResult.Call.Name,
					Arguments: toolResult.Call.Arguments,
				},
			},
		},
	})
	messages = append(messages, openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		ToolCallID: toolResult.Call.ID,
		Content:    string(resultJSON),
	})

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	return c.send(ctx, request)
}

func (c *OpenAIClient) send(ctx context.Context, request openai.ChatCompletionRequest) (*chat.Completion, error) {
	start := time.Now()
	response, err := c.wire.CreateChatCompletion(ctx, c.cfg.APIKey, request)
	metrics.RecordLLMDuration(request.Model, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"completion response has no choices", nil, "1fa3e8d7-6b2c-4d90-a5e4-8c7b9f0d2e31")
	}
	metrics.RecordTokens(request.Model, response.Usage.PromptTokens, response.Usage.CompletionTokens)

	choice := response.Choices[0]
	completion := &chat.Completion{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		PromptTokens: response.Usage.PromptTokens,
		OutputTokens: response.Usage.CompletionTokens,
	}
	completion.ToolCalls = functional.Map(choice.Message.ToolCalls, func(tc openai.ToolCall) chat.ToolCall {
		return chat.ToolCall{
			ID:        tc.ID,
			Type:      string(tc.Type),
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	})
	return completion, nil
}

// buildMessages assembles the system prompt, the history window mapped to
// user/assistant roles, and the current user message.
func (c *OpenAIClient) buildMessages(userMessage string, history []chat.Snippet) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, snippet := range history {
		role := openai.ChatMessageRoleAssistant
		if snippet.Role == "user" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: snippet.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})
	return messages
}
