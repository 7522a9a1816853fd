package bot

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/google/uuid"

	"github.com/unai-bot/unai/internal/ai"
	"github.com/unai-bot/unai/internal/line"
)

type service struct {
	repo         Repo
	ai           ai.AI
	messenger    Messenger
	images       *ImagePipeline
	dispatcher   *ReplyDispatcher
	historyLimit int
}

func NewService(repo Repo, aiClient ai.AI, messenger Messenger, images *ImagePipeline, historyLimit int) Service {
	return &service{
		repo:         repo,
		ai:           aiClient,
		messenger:    messenger,
		images:       images,
		dispatcher:   NewReplyDispatcher(messenger),
		historyLimit: historyLimit,
	}
}

// HandleEvent runs the full pipeline for one webhook delivery:
// parse → classify → load history → persist inbound → branch → reply →
// persist outbound. Any stage error aborts the rest of the run.
func (s *service) HandleEvent(ctx context.Context, payload line.WebhookEvent) error {
	userMsg, err := userMessage(payload)
	if err != nil {
		return err
	}

	log.Println("========== NEW MESSAGE ==========")
	log.Printf("[svc] userId=%s text=%q", userMsg.UserID, userMsg.Text)

	// typing indicator is best-effort; its failure never aborts the run
	if err := s.messenger.ShowLoading(ctx); err != nil {
		log.Printf("[svc] show loading failed: %v", err)
	}

	demand, err := s.classify(ctx, &userMsg)
	if err != nil {
		return err
	}
	log.Printf("[svc] context=%q demand=%s", userMsg.Context.Name, demand)

	history, err := s.history(ctx, userMsg.UserID)
	if err != nil {
		return err
	}

	// the inbound turn is persisted before generation, so a crash
	// mid-generation still leaves it on record
	if err := s.repo.Save(ctx, []Message{userMsg}); err != nil {
		return fmt.Errorf("%w: save inbound: %v", ErrPersistence, err)
	}

	var botMessages []Message
	switch demand {
	case DemandChat:
		botMessages, err = s.chatTurn(ctx, history, userMsg)
	case DemandCreateImage:
		botMessages, err = s.imageTurn(ctx, history, userMsg)
	}
	if err != nil {
		return err
	}

	if err := s.dispatcher.Reply(ctx, botMessages, userMsg.ReplyToken); err != nil {
		return err
	}

	// bot turns are persisted only after a delivered reply, so a failed
	// reply never fabricates history the user never received
	if err := s.repo.Save(ctx, botMessages); err != nil {
		return fmt.Errorf("%w: save outbound: %v", ErrPersistence, err)
	}

	log.Printf("[svc] done, %d bot message(s)", len(botMessages))
	return nil
}

// userMessage extracts the single message event from the payload. Absence
// is fatal; if several are present the first one wins.
func userMessage(payload line.WebhookEvent) (Message, error) {
	for _, event := range payload.Events {
		if event.Type != line.EventTypeMessage {
			continue
		}
		return Message{
			UserID:     event.Source.UserID,
			From:       SenderUser,
			Text:       event.Message.Text,
			ReplyToken: event.ReplyToken,
		}, nil
	}
	return Message{}, ErrNoMessageEvent
}

func (s *service) classify(ctx context.Context, msg *Message) (UserDemand, error) {
	cls, err := s.ai.Classify(ctx, msg.Text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassification, err)
	}
	demand, err := ParseUserDemand(cls.UserDemand)
	if err != nil {
		return "", err
	}
	msg.Context = &Context{ID: uuid.New(), Name: cls.Context}
	return demand, nil
}

// history returns the most recent turns, oldest first, ready to be
// replayed into a prompt.
func (s *service) history(ctx context.Context, userID string) ([]Message, error) {
	messages, err := s.repo.ListByUserID(ctx, userID, s.historyLimit, Descending)
	if err != nil {
		return nil, fmt.Errorf("%w: list history: %v", ErrPersistence, err)
	}
	slices.Reverse(messages)
	return messages, nil
}

func (s *service) chatTurn(ctx context.Context, history []Message, userMsg Message) ([]Message, error) {
	text, err := s.ai.Chat(ctx, promptTurns(history, userMsg))
	if err != nil {
		return nil, fmt.Errorf("%w: chat: %v", ErrGeneration, err)
	}

	return []Message{{
		UserID:  userMsg.UserID,
		From:    SenderBot,
		Text:    text,
		Context: userMsg.Context,
	}}, nil
}

func (s *service) imageTurn(ctx context.Context, history []Message, userMsg Message) ([]Message, error) {
	prompt, err := s.ai.BuildImagePrompt(ctx, promptTurns(history, userMsg))
	if err != nil {
		return nil, fmt.Errorf("%w: image prompt: %v", ErrGeneration, err)
	}

	payloads, err := s.ai.GenerateImages(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: image generation: %v", ErrGeneration, err)
	}

	pairs, err := s.images.Process(ctx, payloads)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(pairs))
	for _, pair := range pairs {
		pair := pair
		messages = append(messages, Message{
			UserID:  userMsg.UserID,
			From:    SenderBot,
			Context: userMsg.Context,
			Image:   &pair,
		})
	}
	return messages, nil
}

// promptTurns replays history oldest-first and terminates in the current
// turn. An empty history still yields a valid one-turn prompt.
func promptTurns(history []Message, current Message) []ai.Message {
	turns := make([]ai.Message, 0, len(history)+1)
	for _, m := range history {
		role := ai.RoleUser
		if m.From == SenderBot {
			role = ai.RoleAssistant
		}
		turns = append(turns, ai.Message{Role: role, Text: m.Text})
	}
	return append(turns, ai.Message{Role: ai.RoleUser, Text: current.Text})
}
