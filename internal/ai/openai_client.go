package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/unai-bot/unai/internal/config"
)

type OpenAIClient struct {
	client          *openai.Client
	chatModel       string
	classifierModel string
	imageModel      string
	imageSize       string
	imageCount      int
}

func NewOpenAIClient(cfg config.Config) *OpenAIClient {
	return &OpenAIClient{
		client:          openai.NewClient(cfg.OpenAIKey),
		chatModel:       cfg.ChatModel,
		classifierModel: cfg.ClassifierModel,
		imageModel:      cfg.ImageModel,
		imageSize:       cfg.ImageSize,
		imageCount:      cfg.ImageCount,
	}
}

// classificationSchema is the strict response format for Classify.
var classificationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"context": {
			"type": "string"
		},
		"user_demand": {
			"type": "string",
			"enum": ["Chat", "CreateImage"]
		}
	},
	"required": ["context", "user_demand"],
	"additionalProperties": false
}`)

func (c *OpenAIClient) Classify(ctx context.Context, text string) (Classification, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.classifierModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: RoleSystem, Content: ClassifierPrompt},
			{Role: RoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "user_demand",
				Schema: classificationSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		log.Println("[ai] classify error:", err)
		return Classification{}, err
	}
	if len(resp.Choices) == 0 {
		return Classification{}, errors.New("classify: empty choices")
	}

	var out Classification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return Classification{}, fmt.Errorf("classify: malformed structured response: %w", err)
	}
	return out, nil
}

func (c *OpenAIClient) Chat(ctx context.Context, history []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    msgs,
		Temperature: 0.7,
	})
	if err != nil {
		log.Println("[ai] chat error:", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) BuildImagePrompt(ctx context.Context, history []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    RoleSystem,
		Content: ImagePromptBuilderPrompt,
	})
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: msgs,
	})
	if err != nil {
		log.Println("[ai] image prompt error:", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("image prompt: empty choices")
	}

	prompt := resp.Choices[0].Message.Content
	log.Printf("[ai] image prompt: %s", prompt)
	return prompt, nil
}

func (c *OpenAIClient) GenerateImages(ctx context.Context, prompt string) ([]string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              c.imageCount,
		Size:           c.imageSize,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		log.Println("[ai] image generation error:", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("image generation: empty data")
	}

	images := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		images = append(images, d.B64JSON)
	}
	return images, nil
}
