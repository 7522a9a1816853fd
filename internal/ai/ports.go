package ai

import "context"

// Message — one conversation turn in the shape the model consumes
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Classification is the structured classifier output: a short context label
// plus one demand category. Enforcing the demand enum is the caller's job.
type Classification struct {
	Context    string `json:"context"`
	UserDemand string `json:"user_demand"`
}

type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

type ChatCompleter interface {
	Chat(ctx context.Context, history []Message) (string, error)
}

type ImageGenerator interface {
	// BuildImagePrompt condenses the conversation into a single
	// image-generation prompt.
	BuildImagePrompt(ctx context.Context, history []Message) (string, error)
	// GenerateImages returns base64-encoded images for the prompt.
	GenerateImages(ctx context.Context, prompt string) ([]string, error)
}

// AI — the full model surface the orchestrator consumes
type AI interface {
	Classifier
	ChatCompleter
	ImageGenerator
}
