package bot

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	_ "image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, b64 string) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	return data
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcessMalformedBase64(t *testing.T) {
	p := NewImagePipeline(&fakeBlobStore{}, 512)
	_, err := p.Process(context.Background(), []string{"!!! not base64 !!!"})
	require.ErrorIs(t, err, ErrImageDecode)
}

func TestDerivePreviewBoundsAndAspect(t *testing.T) {
	p := NewImagePipeline(&fakeBlobStore{}, 512)

	original := Image{ID: uuid.New(), Data: mustDecode(t, pngB64(t, 1024, 512))}
	preview, err := p.derivePreview(original)
	require.NoError(t, err)
	assert.True(t, preview.IsPreview)
	assert.Equal(t, original.ID, preview.ID)

	w, h := decodeDims(t, preview.Data)
	assert.Equal(t, 512, w)
	assert.Equal(t, 256, h, "aspect ratio must be preserved")

	// the original bytes are untouched
	ow, oh := decodeDims(t, original.Data)
	assert.Equal(t, 1024, ow)
	assert.Equal(t, 512, oh)
}

func TestDerivePreviewDeterministic(t *testing.T) {
	p := NewImagePipeline(&fakeBlobStore{}, 512)
	original := Image{ID: uuid.New(), Data: mustDecode(t, pngB64(t, 800, 600))}

	first, err := p.derivePreview(original)
	require.NoError(t, err)
	second, err := p.derivePreview(original)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}

func TestProcessPairsByIndex(t *testing.T) {
	store := &fakeBlobStore{}
	p := NewImagePipeline(store, 512)

	payloads := make([]string, 8)
	for i := range payloads {
		payloads[i] = pngB64(t, 16+i, 16)
	}

	pairs, err := p.Process(context.Background(), payloads)
	require.NoError(t, err)
	require.Len(t, pairs, len(payloads))
	assert.Len(t, store.uploads, 2*len(payloads))

	for _, pair := range pairs {
		object := strings.TrimPrefix(pair.OriginalURL, "https://signed.example/")
		assert.Equal(t, "https://signed.example/preview_"+object, pair.PreviewURL)
	}
}

func TestProcessFailsBatchOnUploadError(t *testing.T) {
	store := &fakeBlobStore{uploadErr: errors.New("bucket gone")}
	p := NewImagePipeline(store, 512)

	pairs, err := p.Process(context.Background(), []string{pngB64(t, 32, 32), pngB64(t, 32, 32)})
	require.ErrorIs(t, err, ErrUpload)
	assert.Nil(t, pairs)
}

func TestObjectName(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String()+".png", Image{ID: id}.ObjectName())
	assert.Equal(t, "preview_"+id.String()+".png", Image{ID: id, IsPreview: true}.ObjectName())
}
