package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/domain/weather"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeConversationRepo struct {
	conversations map[string]*conversation.Conversation
	titles        map[uint]string
}

func newFakeConversationRepo(convs ...*conversation.Conversation) *fakeConversationRepo {
	repo := &fakeConversationRepo{
		conversations: make(map[string]*conversation.Conversation),
		titles:        make(map[uint]string),
	}
	for _, conv := range convs {
		repo.conversations[conv.PublicID] = conv
	}
	return repo
}

func (r *fakeConversationRepo) Create(ctx context.Context, conv *conversation.Conversation) error {
	r.conversations[conv.PublicID] = conv
	return nil
}

func (r *fakeConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	conv, ok := r.conversations[publicID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"conversation not found", nil, "test-not-found")
	}
	return conv, nil
}

func (r *fakeConversationRepo) FindByPublicIDWithMessages(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	return r.FindByPublicID(ctx, publicID)
}

func (r *fakeConversationRepo) List(ctx context.Context) ([]conversation.Conversation, error) {
	return nil, nil
}

func (r *fakeConversationRepo) UpdateTitle(ctx context.Context, id uint, title string) error {
	r.titles[id] = title
	return nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

type fakeMessageRepo struct {
	messages []conversation.Message
	nextID   uint
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *conversation.Message) error {
	r.nextID++
	msg.ID = r.nextID
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) LatestByConversationID(ctx context.Context, conversationID uint, limit int) ([]conversation.Message, error) {
	var out []conversation.Message
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeMessageRepo) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	count, _ := r.LatestByConversationID(ctx, conversationID, len(r.messages)+1)
	return int64(len(count)), nil
}

type fakeCompletionClient struct {
	completion     *Completion
	completionErr  error
	toolCompletion *Completion
	toolErr        error

	lastToolResult *ToolResult
	toolHistory    []Snippet
}

func (c *fakeCompletionClient) Complete(ctx context.Context, userMessage string, history []Snippet) (*Completion, error) {
	if c.completionErr != nil {
		return nil, c.completionErr
	}
	return c.completion, nil
}

func (c *fakeCompletionClient) CompleteWithToolResult(ctx context.Context, userMessage string, toolResult ToolResult, history []Snippet) (*Completion, error) {
	c.lastToolResult = &toolResult
	c.toolHistory = history
	if c.toolErr != nil {
		return nil, c.toolErr
	}
	return c.toolCompletion, nil
}

type fakeWeatherProvider struct {
	report *weather.Report
	err    error

	lastLatitude  float64
	lastLongitude float64
}

func (p *fakeWeatherProvider) CurrentConditions(ctx context.Context, latitude, longitude float64, location *string) (*weather.Report, error) {
	p.lastLatitude = latitude
	p.lastLongitude = longitude
	if p.err != nil {
		return nil, p.err
	}
	return p.report, nil
}

func (p *fakeWeatherProvider) Geocode(ctx context.Context, name string) (*weather.Coordinates, error) {
	return nil, errors.New("not implemented")
}

func newTestService(convRepo *fakeConversationRepo, msgRepo *fakeMessageRepo, completions CompletionClient, provider weather.Provider, offline bool) *TurnService {
	return NewTurnService(convRepo, msgRepo, completions, provider, &fakeTransactor{}, zerolog.Nop(), TurnConfig{
		Offline: offline,
	})
}

func testConversation(id uint, publicID string) *conversation.Conversation {
	return &conversation.Conversation{ID: id, PublicID: publicID}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	convRepo := newFakeConversationRepo()
	msgRepo := &fakeMessageRepo{}
	svc := newTestService(convRepo, msgRepo, &fakeCompletionClient{}, &fakeWeatherProvider{}, true)

	_, err := svc.SendMessage(context.Background(), "conv_missing", "hola")
	if err == nil {
		t.Fatal("expected error for unknown conversation")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
	if len(msgRepo.messages) != 0 {
		t.Errorf("expected no messages persisted, got %d", len(msgRepo.messages))
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	svc := newTestService(convRepo, msgRepo, &fakeCompletionClient{}, &fakeWeatherProvider{}, true)

	_, err := svc.SendMessage(context.Background(), "conv_abc", "   ")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSendMessageDirectReply(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	completions := &fakeCompletionClient{
		completion: &Completion{Content: "Hace sol en Madrid."},
	}
	svc := newTestService(convRepo, msgRepo, completions, &fakeWeatherProvider{}, false)

	reply, err := svc.SendMessage(context.Background(), "conv_abc", "¿Qué tiempo hace en Madrid?")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply.Content != "Hace sol en Madrid." {
		t.Errorf("unexpected reply: %q", reply.Content)
	}
	if reply.Role != conversation.RoleAssistant {
		t.Errorf("expected assistant role, got %q", reply.Role)
	}
	if len(msgRepo.messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(msgRepo.messages))
	}
	if msgRepo.messages[0].Role != conversation.RoleUser {
		t.Errorf("first persisted message should be the user message")
	}
}

func TestSendMessageSetsTitleOnFirstTurn(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	completions := &fakeCompletionClient{completion: &Completion{Content: "ok"}}
	svc := newTestService(convRepo, msgRepo, completions, &fakeWeatherProvider{}, false)

	if _, err := svc.SendMessage(context.Background(), "conv_abc", "¿Llueve hoy en Bilbao?"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if got := convRepo.titles[1]; got != "¿Llueve hoy en Bilbao?" {
		t.Errorf("expected title from first message, got %q", got)
	}
}

func TestSendMessageKeepsExistingTitle(t *testing.T) {
	conv := testConversation(1, "conv_abc")
	existing := "Clima en Madrid"
	conv.Title = &existing
	convRepo := newFakeConversationRepo(conv)
	msgRepo := &fakeMessageRepo{}
	completions := &fakeCompletionClient{completion: &Completion{Content: "ok"}}
	svc := newTestService(convRepo, msgRepo, completions, &fakeWeatherProvider{}, false)

	if _, err := svc.SendMessage(context.Background(), "conv_abc", "hola"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if _, ok := convRepo.titles[1]; ok {
		t.Error("title should not be rewritten when already set")
	}
}

func TestSendMessageSkipsTitleOnLaterTurns(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	completions := &fakeCompletionClient{completion: &Completion{Content: "ok"}}
	svc := newTestService(convRepo, msgRepo, completions, &fakeWeatherProvider{}, false)

	if _, err := svc.SendMessage(context.Background(), "conv_abc", "primer mensaje"); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), "conv_abc", "segundo mensaje"); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}

	if got := convRepo.titles[1]; got != "primer mensaje" {
		t.Errorf("title should come from the first turn only, got %q", got)
	}
}

func TestSendMessageCompletionFailure(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	completions := &fakeCompletionClient{completionErr: errors.New("provider down")}
	svc := newTestService(convRepo, msgRepo, completions, &fakeWeatherProvider{}, false)

	reply, err := svc.SendMessage(context.Background(), "conv_abc", "¿Qué tiempo hace?")
	if err != nil {
		t.Fatalf("turn should still commit on provider failure: %v", err)
	}
	if reply.Content != apologyTechnical {
		t.Errorf("expected technical apology, got %q", reply.Content)
	}
	if len(msgRepo.messages) != 2 {
		t.Errorf("expected both messages persisted, got %d", len(msgRepo.messages))
	}
}

func TestSendMessageWeatherToolFlow(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	completions := &fakeCompletionClient{
		completion: &Completion{
			ToolCalls: []ToolCall{{
				ID:        "call_1",
				Type:      "function",
				Name:      WeatherToolName,
				Arguments: `{"latitude": 40.4168, "longitude": -3.7038, "location": "Madrid"}`,
			}},
		},
		toolCompletion: &Completion{Content: "En Madrid hace 22 grados y está despejado."},
	}
	description := "Despejado"
	temp := 22.0
	provider := &fakeWeatherProvider{
		report: &weather.Report{
			Location: "Madrid",
			Current: weather.Conditions{
				Temperature:        &temp,
				WeatherDescription: description,
			},
		},
	}
	svc := newTestService(convRepo, msgRepo, completions, provider, false)

	reply, err := svc.SendMessage(context.Background(), "conv_abc", "¿Qué tiempo hace en Madrid?")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !strings.Contains(reply.Content, "Madrid") {
		t.Errorf("unexpected reply: %q", reply.Content)
	}
	if provider.lastLatitude != 40.4168 || provider.lastLongitude != -3.7038 {
		t.Errorf("weather lookup used wrong coordinates: %v, %v", provider.lastLatitude, provider.lastLongitude)
	}
	if completions.lastToolResult == nil {
		t.Fatal("tool result was not handed back to the provider")
	}
	if completions.lastToolResult.Call.ID != "call_1" {
		t.Errorf("tool result references wrong call: %q", completions.lastToolResult.Call.ID)
	}
	// The second completion reuses the window from before the tool call.
	if len(completions.toolHistory) != 1 {
		t.Errorf("expected original history window, got %d entries", len(completions.toolHistory))
	}
}

func TestSendMessageWeatherFailures(t *testing.T) {
	toolCompletion := &Completion{
		ToolCalls: []ToolCall{{
			ID:        "call_1",
			Type:      "function",
			Name:      WeatherToolName,
			Arguments: `{"latitude": 40.4, "longitude": -3.7}`,
		}},
	}

	tests := []struct {
		name        string
		completions *fakeCompletionClient
		provider    *fakeWeatherProvider
	}{
		{
			name: "invalid tool arguments",
			completions: &fakeCompletionClient{
				completion: &Completion{
					ToolCalls: []ToolCall{{Name: WeatherToolName, Arguments: "not json"}},
				},
			},
			provider: &fakeWeatherProvider{},
		},
		{
			name:        "weather lookup fails",
			completions: &fakeCompletionClient{completion: toolCompletion},
			provider:    &fakeWeatherProvider{err: errors.New("open-meteo unreachable")},
		},
		{
			name: "second completion fails",
			completions: &fakeCompletionClient{
				completion: toolCompletion,
				toolErr:    errors.New("provider down"),
			},
			provider: &fakeWeatherProvider{report: &weather.Report{Location: "Madrid"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
			msgRepo := &fakeMessageRepo{}
			svc := newTestService(convRepo, msgRepo, tc.completions, tc.provider, false)

			reply, err := svc.SendMessage(context.Background(), "conv_abc", "¿Qué tiempo hace?")
			if err != nil {
				t.Fatalf("turn should still commit: %v", err)
			}
			if reply.Content != apologyWeather {
				t.Errorf("expected weather apology, got %q", reply.Content)
			}
		})
	}
}

func TestSendMessageUnrecognizedTool(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "model also answered", content: "te cuento igual", expected: "te cuento igual"},
		{name: "no answer at all", content: "", expected: fallbackUnrecognized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
			msgRepo := &fakeMessageRepo{}
			completions := &fakeCompletionClient{
				completion: &Completion{
					Content:   tc.content,
					ToolCalls: []ToolCall{{Name: "get_stock_price", Arguments: "{}"}},
				},
			}
			svc := newTestService(convRepo, msgRepo, completions, &fakeWeatherProvider{}, false)

			reply, err := svc.SendMessage(context.Background(), "conv_abc", "¿precio de AAPL?")
			if err != nil {
				t.Fatalf("SendMessage failed: %v", err)
			}
			if reply.Content != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, reply.Content)
			}
		})
	}
}

func TestSendMessageOffline(t *testing.T) {
	convRepo := newFakeConversationRepo(testConversation(1, "conv_abc"))
	msgRepo := &fakeMessageRepo{}
	svc := newTestService(convRepo, msgRepo, &fakeCompletionClient{}, &fakeWeatherProvider{}, true)

	reply, err := svc.SendMessage(context.Background(), "conv_abc", "hola MeteoBot")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply.Content != fallbackGreetingResponse {
		t.Errorf("expected greeting fallback, got %q", reply.Content)
	}
	if len(msgRepo.messages) != 2 {
		t.Errorf("offline mode must still persist both messages, got %d", len(msgRepo.messages))
	}
	if got := convRepo.titles[1]; got != "hola MeteoBot" {
		t.Errorf("offline mode must still set the title, got %q", got)
	}
}
