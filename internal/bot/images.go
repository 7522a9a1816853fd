package bot

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/unai-bot/unai/internal/storage"
)

// ImagePipeline decodes generated images, derives previews and uploads
// both, producing signed URL pairs.
type ImagePipeline struct {
	store        storage.BlobStore
	previewBound int
}

func NewImagePipeline(store storage.BlobStore, previewBound int) *ImagePipeline {
	return &ImagePipeline{store: store, previewBound: previewBound}
}

// Process turns a batch of base64 payloads into (original, preview) URL
// pairs. All uploads for the batch run concurrently and are awaited as one
// unit; each goroutine writes into its own slot, so the i-th pair always
// belongs to the i-th input payload.
func (p *ImagePipeline) Process(ctx context.Context, payloads []string) ([]ImagePayload, error) {
	originals := make([]Image, len(payloads))
	previews := make([]Image, len(payloads))

	for i, b64 := range payloads {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
		}
		originals[i] = Image{ID: uuid.New(), Data: data}

		preview, err := p.derivePreview(originals[i])
		if err != nil {
			return nil, err
		}
		previews[i] = preview
	}

	originalURLs := make([]string, len(originals))
	previewURLs := make([]string, len(previews))

	g, gctx := errgroup.WithContext(ctx)
	for i := range originals {
		i := i
		g.Go(func() error {
			url, err := p.upload(gctx, originals[i])
			originalURLs[i] = url
			return err
		})
		g.Go(func() error {
			url, err := p.upload(gctx, previews[i])
			previewURLs[i] = url
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := make([]ImagePayload, len(payloads))
	for i := range pairs {
		pairs[i] = ImagePayload{
			OriginalURL: originalURLs[i],
			PreviewURL:  previewURLs[i],
		}
	}
	return pairs, nil
}

// derivePreview fits the original into the preview bounding box, keeping
// aspect ratio, and re-encodes to PNG. The original is left untouched; the
// preview reuses its id so the two object names stay correlated.
func (p *ImagePipeline) derivePreview(original Image) (Image, error) {
	src, err := imaging.Decode(bytes.NewReader(original.Data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	resized := imaging.Fit(src, p.previewBound, p.previewBound, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return Image{}, fmt.Errorf("%w: encode preview: %v", ErrImageDecode, err)
	}

	return Image{ID: original.ID, Data: buf.Bytes(), IsPreview: true}, nil
}

func (p *ImagePipeline) upload(ctx context.Context, img Image) (string, error) {
	name := img.ObjectName()
	if err := p.store.Upload(ctx, name, img.Data); err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", ErrUpload, name, err)
	}
	url, err := p.store.SignedURL(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: sign %s: %v", ErrUpload, name, err)
	}
	log.Printf("[img] uploaded %s", name)
	return url, nil
}
