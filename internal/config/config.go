package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full environment-derived configuration, loaded once at
// startup and passed to component constructors.
type Config struct {
	Port        string
	DatabaseURL string

	OpenAIKey       string
	ChatModel       string
	ClassifierModel string
	ImageModel      string
	ImageSize       string
	ImageCount      int

	LineChannelAccessToken string
	LineBotUserID          string

	GCSBucket string

	HistoryLimit int
	PreviewBound int
	SignedURLTTL time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getenv("OPENAI_CHAT_MODEL", "gpt-4o"),
		ClassifierModel: getenv("OPENAI_CLASSIFIER_MODEL", "gpt-4o-mini"),
		ImageModel:      getenv("OPENAI_IMAGE_MODEL", "dall-e-2"),
		ImageSize:       getenv("OPENAI_IMAGE_SIZE", "256x256"),

		LineChannelAccessToken: os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LineBotUserID:          os.Getenv("LINE_BOT_USER_ID"),

		GCSBucket: os.Getenv("GCS_BUCKET"),
	}

	var err error
	if cfg.ImageCount, err = getint("OPENAI_IMAGE_COUNT", 1); err != nil {
		return Config{}, err
	}
	if cfg.HistoryLimit, err = getint("HISTORY_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.PreviewBound, err = getint("PREVIEW_BOUND", 512); err != nil {
		return Config{}, err
	}
	ttl, err := getint("SIGNED_URL_TTL_SECONDS", 600)
	if err != nil {
		return Config{}, err
	}
	cfg.SignedURLTTL = time.Duration(ttl) * time.Second

	for name, value := range map[string]string{
		"DATABASE_URL":              cfg.DatabaseURL,
		"OPENAI_API_KEY":            cfg.OpenAIKey,
		"LINE_CHANNEL_ACCESS_TOKEN": cfg.LineChannelAccessToken,
		"LINE_BOT_USER_ID":          cfg.LineBotUserID,
		"GCS_BUCKET":                cfg.GCSBucket,
	} {
		if value == "" {
			return Config{}, fmt.Errorf("config: %s is not set", name)
		}
	}

	return cfg, nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getint(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %v", name, err)
	}
	return n, nil
}
