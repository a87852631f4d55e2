package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/birdo/internal/config"
)

// APIClient uploads objects to a hosted storage bucket exposing the
// /storage/v1/object REST interface.
type APIClient struct {
	httpClient *resty.Client
	baseURL    string
	bucket     string
}

// NewClient builds a storage client from the configuration values.
func NewClient(cfg config.StorageConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/storage/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("apikey", cfg.APIKey).
		SetTimeout(30 * time.Second)

	return &APIClient{httpClient: restyClient, baseURL: base, bucket: cfg.Bucket}
}

type apiError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Upload stores body under objectPath in the bucket and returns its public URL.
func (c *APIClient) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	objectPath = strings.TrimPrefix(objectPath, "/")
	if objectPath == "" {
		return "", fmt.Errorf("object path must not be empty")
	}

	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBody(body).
		SetError(apiErr).
		Post(fmt.Sprintf("object/%s/%s", c.bucket, objectPath))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return "", fmt.Errorf("storage api error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return c.PublicURL(objectPath), nil
}

// PublicURL is the address an uploaded object is served from.
func (c *APIClient) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, strings.TrimPrefix(objectPath, "/"))
}
