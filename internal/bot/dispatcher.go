package bot

import (
	"context"
	"fmt"

	"github.com/unai-bot/unai/internal/line"
)

// ReplyDispatcher packages bot messages into platform messages and sends
// them in a single batched call. Reply tokens are single-use, so callers
// must invoke Reply at most once per webhook delivery.
type ReplyDispatcher struct {
	messenger Messenger
}

func NewReplyDispatcher(messenger Messenger) *ReplyDispatcher {
	return &ReplyDispatcher{messenger: messenger}
}

func (d *ReplyDispatcher) Reply(ctx context.Context, messages []Message, replyToken string) error {
	if replyToken == "" {
		return ErrMissingReplyToken
	}

	out := make([]line.Message, 0, len(messages))
	for _, m := range messages {
		if m.Image != nil {
			out = append(out, line.ImageMessage(m.Image.OriginalURL, m.Image.PreviewURL))
			continue
		}
		out = append(out, line.TextMessage(m.Text))
	}

	if err := d.messenger.Reply(ctx, replyToken, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
