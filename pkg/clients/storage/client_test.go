package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/birdo/internal/config"
)

func TestUpload(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/plantel-images/birds/u1/a.png", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte(`{"Key":"plantel-images/birds/u1/a.png"}`))
	}))
	defer srv.Close()

	client := NewClient(config.StorageConfig{BaseURL: srv.URL, APIKey: "key", Bucket: "plantel-images"})
	url, err := client.Upload(context.Background(), "birds/u1/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/storage/v1/object/public/plantel-images/birds/u1/a.png", url)
	assert.Equal(t, "png-bytes", body)
}

func TestUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	client := NewClient(config.StorageConfig{BaseURL: srv.URL, APIKey: "key", Bucket: "b"})
	_, err := client.Upload(context.Background(), "birds/a.png", "image/png", strings.NewReader("x"))
	assert.EqualError(t, err, "storage api error: status=409, message=The resource already exists")

	_, err = client.Upload(context.Background(), "", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}
