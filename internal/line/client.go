package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/unai-bot/unai/internal/config"
)

type Client struct {
	baseURL   string
	token     string // channel access token
	botUserID string
	client    *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:   "https://api.line.me/v2/bot",
		token:     cfg.LineChannelAccessToken,
		botUserID: cfg.LineBotUserID,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ShowLoading starts the typing indicator in the user's chat.
func (c *Client) ShowLoading(ctx context.Context) error {
	return c.send(ctx, "/chat/loading/start", loadingStart{
		ChatID:         c.botUserID,
		LoadingSeconds: 60, // maximum 60 seconds
	})
}

// Reply sends all messages in one call, consuming the one-time reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	return c.send(ctx, "/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
}

// Push sends messages to a user without a reply token.
func (c *Client) Push(ctx context.Context, to string, messages []Message) error {
	return c.send(ctx, "/message/push", pushRequest{
		To:       to,
		Messages: messages,
	})
}

func (c *Client) send(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.New(
			"line api error: " +
				resp.Status +
				" body=" + string(respBody),
		)
	}

	return nil
}
