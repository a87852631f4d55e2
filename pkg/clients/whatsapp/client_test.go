package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/birdo/internal/config"
)

func capture(t *testing.T, got *message) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNotifyText(t *testing.T) {
	var got message
	srv := capture(t, &got)

	client := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "12345", BaseURL: srv.URL + "/", APIVersion: "v20.0"})
	require.NoError(t, client.Notify(context.Background(), "+55 (11) 99999-0000", "hello\nworld"))

	assert.Equal(t, "5511999990000", got.To)
	assert.Equal(t, "whatsapp", got.Product)
	assert.Equal(t, "text", got.Type)
	require.NotNil(t, got.Text)
	assert.Equal(t, "hello\nworld", got.Text.Body)
	assert.Nil(t, got.Template)
}

func TestNotifyTemplate(t *testing.T) {
	var got message
	srv := capture(t, &got)

	client := NewClient(config.WhatsAppConfig{
		AccessToken: "token", PhoneNumberID: "12345", BaseURL: srv.URL, APIVersion: "v20.0",
		DigestTemplate: "weekly_digest", TemplateLanguage: "pt_BR",
	})
	require.NoError(t, client.Notify(context.Background(), "5511999990000", "Active birds: 12\n\nPairs:  3"))

	assert.Equal(t, "template", got.Type)
	assert.Nil(t, got.Text)
	require.NotNil(t, got.Template)
	assert.Equal(t, "weekly_digest", got.Template.Name)
	assert.Equal(t, "pt_BR", got.Template.Language.Code)
	require.Len(t, got.Template.Components, 1)
	assert.Equal(t, "Active birds: 12 Pairs: 3", got.Template.Components[0].Parameters[0].Text)
}

func TestComposeTruncatesTemplateParameter(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{DigestTemplate: "weekly_digest", TemplateLanguage: "en"})
	msg := client.compose("1", strings.Repeat("á", 2000))
	assert.Len(t, []rune(msg.Template.Components[0].Parameters[0].Text), templateParamLimit)
}

func TestNotifyAPIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})
	err := client.Notify(context.Background(), "1", "x")
	assert.EqualError(t, err, "whatsapp api error: code=100, message=Invalid parameter")
	assert.EqualValues(t, 1, calls.Load(), "client errors are not retried")
}

func TestNotifyRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.2"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})
	require.NoError(t, client.Notify(context.Background(), "1", "x"))
	assert.EqualValues(t, 2, calls.Load())
}

func TestNotifyRejectsEmptyPhone(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{BaseURL: "http://127.0.0.1:1", APIVersion: "v20.0"})
	assert.Error(t, client.Notify(context.Background(), "n/a", "x"))
}
