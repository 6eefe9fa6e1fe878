package stringutils

import (
	"strings"
)

// DefaultConversationTitle is used when the source content is empty.
const DefaultConversationTitle = "Nueva conversación"

const (
	titleMaxLen = 50
	titleCutLen = 47
)

// DeriveTitle builds a conversation title from the first user message.
// The content is trimmed; titles longer than 50 characters are cut to the
// first 47 characters plus an ellipsis, and empty content falls back to the
// default title.
func DeriveTitle(content string) string {
	title := strings.TrimSpace(content)
	if title == "" {
		return DefaultConversationTitle
	}

	runes := []rune(title)
	if len(runes) > titleMaxLen {
		return string(runes[:titleCutLen]) + "..."
	}
	return title
}
