package storage

import (
	"context"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/unai-bot/unai/internal/config"
)

type GCS struct {
	client *gcs.Client
	bucket string
	urlTTL time.Duration
}

// NewGCS authenticates with application default credentials.
func NewGCS(ctx context.Context, cfg config.Config) (*GCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCS{
		client: client,
		bucket: cfg.GCSBucket,
		urlTTL: cfg.SignedURLTTL,
	}, nil
}

func (g *GCS) Upload(ctx context.Context, object string, data []byte) error {
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "image/png"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (g *GCS) SignedURL(_ context.Context, object string) (string, error) {
	return g.client.Bucket(g.bucket).SignedURL(object, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(g.urlTTL),
	})
}
