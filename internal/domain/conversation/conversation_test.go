package conversation

import (
	"context"
	"strings"
	"testing"

	"menloresearch/meteobot-server/internal/utils/idgen"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

func TestNewConversation(t *testing.T) {
	ctx := context.Background()

	title := "Clima en Madrid"
	conv, err := NewConversation(ctx, &title, map[string]string{"source": "web"})
	if err != nil {
		t.Fatalf("NewConversation failed: %v", err)
	}
	if !idgen.ValidateIDFormat(conv.PublicID, ConversationIDPrefix) {
		t.Errorf("invalid public ID: %q", conv.PublicID)
	}
	if conv.Title == nil || *conv.Title != title {
		t.Errorf("title not carried over: %v", conv.Title)
	}
	if conv.HasTitle() != true {
		t.Error("HasTitle should report true")
	}

	untitled, err := NewConversation(ctx, nil, nil)
	if err != nil {
		t.Fatalf("NewConversation without title failed: %v", err)
	}
	if untitled.HasTitle() {
		t.Error("HasTitle should report false for untitled conversation")
	}
}

func TestConversationValidate(t *testing.T) {
	ctx := context.Background()

	longTitle := strings.Repeat("a", MaxTitleLength+1)
	tooManyEntries := make(map[string]string, MaxMetadataEntries+1)
	for i := 0; i < MaxMetadataEntries+1; i++ {
		tooManyEntries[strings.Repeat("k", i+1)] = "v"
	}

	tests := []struct {
		name    string
		conv    Conversation
		wantErr bool
	}{
		{name: "empty conversation", conv: Conversation{}},
		{name: "title at limit", conv: Conversation{Title: ptr(strings.Repeat("a", MaxTitleLength))}},
		{name: "title too long", conv: Conversation{Title: &longTitle}, wantErr: true},
		{name: "metadata too large", conv: Conversation{Metadata: tooManyEntries}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.conv.Validate(ctx)
			if tc.wantErr {
				if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateMessageContent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "normal message", content: "¿Qué tiempo hace en Madrid?"},
		{name: "at limit", content: strings.Repeat("a", MaxMessageContentLength)},
		{name: "multibyte at limit", content: strings.Repeat("ñ", MaxMessageContentLength)},
		{name: "empty", content: "", wantErr: true},
		{name: "whitespace only", content: "   \n\t", wantErr: true},
		{name: "too long", content: strings.Repeat("a", MaxMessageContentLength+1), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMessageContent(ctx, tc.content)
			if tc.wantErr {
				if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}
