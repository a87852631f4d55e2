package uploads

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

type fakeBucket struct {
	path, contentType, body string
}

func (f *fakeBucket) Upload(_ context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	f.path, f.contentType, f.body = objectPath, contentType, string(data)
	return "https://cdn.example/" + objectPath, nil
}

func photo(contentType string, size int64) Photo {
	return Photo{Filename: "zeus.png", ContentType: contentType, Size: size, Body: strings.NewReader("img")}
}

func TestUpload(t *testing.T) {
	bucket := &fakeBucket{}
	svc := NewService(bucket, nil)
	svc.newID = func() string { return "abc" }

	url, err := svc.Upload(context.Background(), "u1", "birds", photo("image/PNG", 3))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/birds/u1/abc.png", url)
	assert.Equal(t, "image/png", bucket.contentType)
	assert.Equal(t, "img", bucket.body)
}

func TestUploadValidation(t *testing.T) {
	svc := NewService(&fakeBucket{}, nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", "documents", photo("image/png", 3))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Upload(ctx, "u1", "profile", photo("application/pdf", 3))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Upload(ctx, "u1", "profile", photo("image/jpeg", MaxPhotoSize+1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Upload(ctx, "u1", "profile", photo("image/jpeg", 0))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUploadDisabled(t *testing.T) {
	_, err := NewService(nil, nil).Upload(context.Background(), "u1", "birds", photo("image/png", 3))
	assert.ErrorIs(t, err, models.ErrFeatureDisabled)
}
