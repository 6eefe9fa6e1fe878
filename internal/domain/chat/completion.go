package chat

import (
	"context"

	"menloresearch/meteobot-server/internal/domain/conversation"
)

// WeatherToolName is the single tool offered to the completion provider.
const WeatherToolName = "get_weather_for_location"

// Snippet is a history entry handed to the completion provider.
type Snippet struct {
	Content string
	Role    conversation.Role
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Type      string
	Name      string
	Arguments string
}

// ToolResult pairs a tool call with the value produced for it.
type ToolResult struct {
	Call   ToolCall
	Result any
}

// Completion is the provider's answer for one request.
type Completion struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
	PromptTokens int
	OutputTokens int
}

// HasToolCalls reports whether the model asked for any tool.
func (c *Completion) HasToolCalls() bool {
	return len(c.ToolCalls) > 0
}

// WeatherToolCall returns the weather tool invocation, if requested.
func (c *Completion) WeatherToolCall() *ToolCall {
	for i := range c.ToolCalls {
		if c.ToolCalls[i].Name == WeatherToolName {
			return &c.ToolCalls[i]
		}
	}
	return nil
}

// CompletionClient talks to the LLM provider.
type CompletionClient interface {
	// Complete runs a chat completion with the weather tool offered.
	Complete(ctx context.Context, userMessage string, history []Snippet) (*Completion, error)
	// CompleteWithToolResult reruns the completion with the tool call and its
	// result appended. No tools are offered on this second call.
	CompleteWithToolResult(ctx context.Context, userMessage string, toolResult ToolResult, history []Snippet) (*Completion, error)
}
