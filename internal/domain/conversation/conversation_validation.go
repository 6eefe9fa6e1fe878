package conversation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

const (
	MaxTitleLength          = 255
	MaxMessageContentLength = 2000
	MaxMetadataEntries      = 16
)

// Validate checks conversation invariants before persistence.
func (c *Conversation) Validate(ctx context.Context) error {
	if c.Title != nil && utf8.RuneCountInString(*c.Title) > MaxTitleLength {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("title exceeds %d characters", MaxTitleLength), nil, "e9c5ba4e-7a36-4dd4-9a96-1f64f3b20c7d")
	}
	if len(c.Metadata) > MaxMetadataEntries {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("metadata exceeds %d entries", MaxMetadataEntries), nil, "6d8b8c1f-30f7-4f38-9e94-52de8be3d941")
	}
	return nil
}

// ValidateMessageContent checks a user message body before it enters a turn.
func ValidateMessageContent(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message content is required", nil, "02a3c9ce-55ad-4a61-8f29-4f4b5a6b0f13")
	}
	if utf8.RuneCountInString(content) > MaxMessageContentLength {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("message content exceeds %d characters", MaxMessageContentLength), nil, "b4b1de0f-9a9e-4a53-a6cb-63d2c60ae90c")
	}
	return nil
}
