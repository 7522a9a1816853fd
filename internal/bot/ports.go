package bot

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/unai-bot/unai/internal/line"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one conversation turn. Context is attached by classification
// before the message reaches persistence; Image is set only on bot turns
// produced by the image branch.
type Message struct {
	UserID     string
	From       Sender
	Text       string
	Context    *Context
	Image      *ImagePayload
	ReplyToken string
	CreatedAt  int64
}

// Context — short label attached to a classified user turn
type Context struct {
	ID   uuid.UUID
	Name string
}

type UserDemand string

const (
	DemandChat        UserDemand = "Chat"
	DemandCreateImage UserDemand = "CreateImage"
)

// ParseUserDemand rejects anything outside the closed enum; an unknown
// label is never defaulted.
func ParseUserDemand(s string) (UserDemand, error) {
	switch UserDemand(s) {
	case DemandChat:
		return DemandChat, nil
	case DemandCreateImage:
		return DemandCreateImage, nil
	}
	return "", fmt.Errorf("%w: unknown user demand %q", ErrClassification, s)
}

// ImagePayload carries the uploaded URLs of one generated image.
type ImagePayload struct {
	OriginalURL string
	PreviewURL  string
}

// Image is an ephemeral decoded image; it lives only until upload.
type Image struct {
	ID        uuid.UUID
	Data      []byte
	IsPreview bool
}

// ObjectName derives the storage object name from the image id. The
// preview shares the original's id, so the prefix is the only difference.
func (i Image) ObjectName() string {
	if i.IsPreview {
		return "preview_" + i.ID.String() + ".png"
	}
	return i.ID.String() + ".png"
}

type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// Repo — persistence
type Repo interface {
	Save(ctx context.Context, messages []Message) error
	ListByUserID(ctx context.Context, userID string, limit int, order Order) ([]Message, error)
}

// Messenger — the platform client consumed by the dispatcher
type Messenger interface {
	ShowLoading(ctx context.Context) error
	Reply(ctx context.Context, replyToken string, messages []line.Message) error
}

// Service — orchestration
type Service interface {
	HandleEvent(ctx context.Context, payload line.WebhookEvent) error
}
