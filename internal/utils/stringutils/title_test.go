package stringutils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short content used verbatim",
			content: "Hola",
			want:    "Hola",
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  ¿Qué tiempo hace en Madrid?  ",
			want:    "¿Qué tiempo hace en Madrid?",
		},
		{
			name:    "empty content falls back to default",
			content: "",
			want:    DefaultConversationTitle,
		},
		{
			name:    "whitespace-only content falls back to default",
			content: "   \n\t ",
			want:    DefaultConversationTitle,
		},
		{
			name:    "exactly fifty characters kept",
			content: strings.Repeat("a", 50),
			want:    strings.Repeat("a", 50),
		},
		{
			name:    "fifty-one characters truncated to forty-seven plus ellipsis",
			content: strings.Repeat("a", 51),
			want:    strings.Repeat("a", 47) + "...",
		},
		{
			name:    "long content truncated",
			content: "Cuéntame el pronóstico completo para toda la semana en Barcelona por favor",
			want:    string([]rune("Cuéntame el pronóstico completo para toda la semana en Barcelona por favor")[:47]) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitle(tt.content)
			if got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n > 50 {
				t.Errorf("DeriveTitle(%q) length = %d runes, want <= 50", tt.content, n)
			}
		})
	}
}

func TestDeriveTitle_MultibyteBoundary(t *testing.T) {
	// Truncation must never split a multibyte rune.
	content := strings.Repeat("ñ", 60)
	got := DeriveTitle(content)
	if !utf8.ValidString(got) {
		t.Errorf("DeriveTitle produced invalid UTF-8: %q", got)
	}
	want := strings.Repeat("ñ", 47) + "..."
	if got != want {
		t.Errorf("DeriveTitle() = %q, want %q", got, want)
	}
}
