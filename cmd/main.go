package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/unai-bot/unai/internal/ai"
	"github.com/unai-bot/unai/internal/bot"
	"github.com/unai-bot/unai/internal/config"
	"github.com/unai-bot/unai/internal/line"
	"github.com/unai-bot/unai/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// --- DB ---
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	// --- Blob storage ---
	blobStore, err := storage.NewGCS(context.Background(), cfg)
	if err != nil {
		log.Fatalf("gcs init error: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Line-Signature"},
	}))

	// --- Bot module wiring ---
	repo := bot.NewRepo(db)
	aiClient := ai.NewOpenAIClient(cfg)
	lineClient := line.NewClient(cfg)
	images := bot.NewImagePipeline(blobStore, cfg.PreviewBound)
	service := bot.NewService(repo, aiClient, lineClient, images, cfg.HistoryLimit)
	handler := bot.NewHandler(service, nil)

	bot.RegisterRoutes(r, handler)

	// --- health ---
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Welcome to UNAI API!"))
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	log.Printf("listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
