package notify

import (
	"context"

	"hotelops/internal/domain"

	"github.com/rs/zerolog"
)

// BestEffort fans a notification out to every channel and never returns
// an error: channel failures are logged and swallowed, per the alerting
// contract (delivery must not fail the caller).
type BestEffort struct {
	channels []domain.Notifier
	logger   *zerolog.Logger
}

func NewBestEffort(logger *zerolog.Logger, channels ...domain.Notifier) *BestEffort {
	return &BestEffort{channels: channels, logger: logger}
}

func (n *BestEffort) Notify(ctx context.Context, title, text string, meta map[string]string) error {
	for _, ch := range n.channels {
		if ch == nil {
			continue
		}
		if err := ch.Notify(ctx, title, text, meta); err != nil {
			n.logger.Error().Err(err).Str("title", title).Msg("notify channel failed")
		}
	}
	return nil
}
