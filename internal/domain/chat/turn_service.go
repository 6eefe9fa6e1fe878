package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/domain/weather"
	"menloresearch/meteobot-server/internal/infrastructure/metrics"
	"menloresearch/meteobot-server/internal/infrastructure/observability"
	"menloresearch/meteobot-server/internal/utils/functional"
	"menloresearch/meteobot-server/internal/utils/stringutils"
)

const (
	apologyTechnical     = "Lo siento, he tenido un problema técnico. Por favor, inténtalo de nuevo."
	apologyWeather       = "Lo siento, no pude obtener la información del clima en este momento. Por favor, inténtalo más tarde."
	fallbackUnrecognized = "Lo siento, no pude procesar tu solicitud."
)

// TurnConfig tunes the orchestration of a chat turn.
type TurnConfig struct {
	// HistoryLimit is the number of recent messages offered as context.
	HistoryLimit int
	// CallTimeout bounds every external provider call.
	CallTimeout time.Duration
	// Offline switches SendMessage to the rule-based responder.
	Offline bool
	// ServiceName names the tracer used for turn spans.
	ServiceName string
}

// Transactor runs a function inside a single database transaction.
type Transactor interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TurnService runs a full chat turn: it persists the user message, asks the
// completion provider for a reply (following at most one weather tool call),
// persists the assistant message, and maintains the conversation title.
type TurnService struct {
	convRepo    conversation.ConversationRepository
	msgRepo     conversation.MessageRepository
	completions CompletionClient
	weather     weather.Provider
	tx          Transactor
	logger      zerolog.Logger
	cfg         TurnConfig
}

func NewTurnService(
	convRepo conversation.ConversationRepository,
	msgRepo conversation.MessageRepository,
	completions CompletionClient,
	weatherProvider weather.Provider,
	tx Transactor,
	logger zerolog.Logger,
	cfg TurnConfig,
) *TurnService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &TurnService{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		completions: completions,
		weather:     weatherProvider,
		tx:          tx,
		logger:      logger,
		cfg:         cfg,
	}
}

// SendMessage runs one chat turn and returns the persisted assistant message.
// The whole turn executes inside a single database transaction: an unknown
// conversation aborts before any write, while provider failures degrade to an
// apology reply so the turn still commits both messages.
func (s *TurnService) SendMessage(ctx context.Context, conversationPublicID, content string) (*conversation.Message, error) {
	if s.cfg.Offline {
		return s.SendMessageOffline(ctx, conversationPublicID, content)
	}
	return s.runTurn(ctx, conversationPublicID, content, s.completeTurn)
}

// SendMessageOffline runs one chat turn without any external calls, answering
// from the rule-based responder. Persistence and title behavior are identical
// to SendMessage.
func (s *TurnService) SendMessageOffline(ctx context.Context, conversationPublicID, content string) (*conversation.Message, error) {
	return s.runTurn(ctx, conversationPublicID, content, func(ctx context.Context, content string, history []conversation.Message) string {
		metrics.RecordTurn(metrics.TurnOutcomeFallback)
		return FallbackResponse(content)
	})
}

type replyFunc func(ctx context.Context, content string, history []conversation.Message) string

func (s *TurnService) runTurn(ctx context.Context, conversationPublicID, content string, reply replyFunc) (*conversation.Message, error) {
	if err := conversation.ValidateMessageContent(ctx, content); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, s.cfg.ServiceName, "chat.turn")
	defer span.End()
	observability.AddSpanAttributes(ctx,
		attribute.String("conversation.public_id", conversationPublicID),
	)

	var assistant *conversation.Message
	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		conv, err := s.convRepo.FindByPublicID(txCtx, conversationPublicID)
		if err != nil {
			return err
		}

		userMsg, err := conversation.NewMessage(txCtx, conv.ID, conversation.RoleUser, content, nil)
		if err != nil {
			return err
		}
		if err := s.msgRepo.Create(txCtx, userMsg); err != nil {
			return err
		}

		// The window includes the user message written above; on the first
		// turn it is the only entry.
		history, err := s.msgRepo.LatestByConversationID(txCtx, conv.ID, s.cfg.HistoryLimit)
		if err != nil {
			return err
		}

		replyText := reply(txCtx, content, history)

		assistant, err = conversation.NewMessage(txCtx, conv.ID, conversation.RoleAssistant, replyText, nil)
		if err != nil {
			return err
		}
		if err := s.msgRepo.Create(txCtx, assistant); err != nil {
			return err
		}

		if len(history) <= 1 && !conv.HasTitle() {
			title := stringutils.DeriveTitle(content)
			if err := s.convRepo.UpdateTitle(txCtx, conv.ID, title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}
	return assistant, nil
}

// completeTurn asks the completion provider for a reply, following at most
// one weather tool call. Provider failures never propagate: they are logged
// and converted into the fixed apology replies.
func (s *TurnService) completeTurn(ctx context.Context, content string, history []conversation.Message) string {
	snippets := toSnippets(history)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	completion, err := s.completions.Complete(callCtx, content, snippets)
	if err != nil {
		s.logger.Error().Err(err).Msg("completion request failed")
		observability.RecordError(ctx, err)
		metrics.RecordProviderError("llm", "completion")
		metrics.RecordTurn(metrics.TurnOutcomeApology)
		return apologyTechnical
	}

	if completion.HasToolCalls() {
		if toolCall := completion.WeatherToolCall(); toolCall != nil {
			return s.handleWeatherToolCall(ctx, content, *toolCall, snippets)
		}
		// The model asked for a tool we never offered.
		s.logger.Warn().Str("tool", completion.ToolCalls[0].Name).Msg("unrecognized tool call")
		metrics.RecordTurn(metrics.TurnOutcomeApology)
		if completion.Content != "" {
			return completion.Content
		}
		return fallbackUnrecognized
	}

	metrics.RecordTurn(metrics.TurnOutcomeDirect)
	return completion.Content
}

// handleWeatherToolCall fetches the requested weather data and reruns the
// completion with the tool result appended to the original history window.
// Any failure along the way yields the weather apology.
func (s *TurnService) handleWeatherToolCall(ctx context.Context, content string, toolCall ToolCall, history []Snippet) string {
	observability.AddSpanEvent(ctx, "weather.tool_call",
		attribute.String("tool_call.id", toolCall.ID),
	)

	var args struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Location  *string `json:"location"`
	}
	if err := json.Unmarshal([]byte(toolCall.Arguments), &args); err != nil {
		s.logger.Error().Err(err).Str("arguments", toolCall.Arguments).Msg("invalid weather tool arguments")
		metrics.RecordWeatherLookup("invalid_args")
		metrics.RecordTurn(metrics.TurnOutcomeApology)
		return apologyWeather
	}

	weatherCtx, cancelWeather := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancelWeather()

	report, err := s.weather.CurrentConditions(weatherCtx, args.Latitude, args.Longitude, args.Location)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("latitude", args.Latitude).
			Float64("longitude", args.Longitude).
			Msg("weather lookup failed")
		observability.RecordError(ctx, err)
		metrics.RecordProviderError("open_meteo", "lookup")
		metrics.RecordWeatherLookup("error")
		metrics.RecordTurn(metrics.TurnOutcomeApology)
		return apologyWeather
	}
	metrics.RecordWeatherLookup("ok")

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	completion, err := s.completions.CompleteWithToolResult(callCtx, content, ToolResult{Call: toolCall, Result: report}, history)
	if err != nil {
		s.logger.Error().Err(err).Msg("completion with tool result failed")
		observability.RecordError(ctx, err)
		metrics.RecordProviderError("llm", "tool_result")
		metrics.RecordTurn(metrics.TurnOutcomeApology)
		return apologyWeather
	}

	metrics.RecordTurn(metrics.TurnOutcomeTool)
	return completion.Content
}

func toSnippets(history []conversation.Message) []Snippet {
	return functional.Map(history, func(msg conversation.Message) Snippet {
		return Snippet{
			Content: msg.Content,
			Role:    msg.Role,
		}
	})
}
