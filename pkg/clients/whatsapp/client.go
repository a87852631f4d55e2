// Package whatsapp delivers weekly digests through the Meta WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/birdo/internal/config"
)

// templateParamLimit is the longest text Meta accepts in a template body parameter.
const templateParamLimit = 1024

// APIClient sends messages from one business phone number.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
	template      string
	language      string
}

// NewClient builds a WhatsApp API client. When cfg names a digest template
// every notification is sent through it.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	c := resty.New().
		SetBaseURL(base+"/"+cfg.APIVersion).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &APIClient{
		http:          c,
		phoneNumberID: cfg.PhoneNumberID,
		template:      cfg.DigestTemplate,
		language:      cfg.TemplateLanguage,
	}
}

// message is the body of POST /{phone-number-id}/messages.
type message struct {
	Product  string    `json:"messaging_product"`
	To       string    `json:"to"`
	Type     string    `json:"type"`
	Text     *text     `json:"text,omitempty"`
	Template *template `json:"template,omitempty"`
}

type text struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// Notify sends body to a phone number written in any human format, such as
// "+55 (11) 99999-0000". Only its digits are kept.
func (c *APIClient) Notify(ctx context.Context, phone, body string) error {
	to := digits(phone)
	if to == "" {
		return fmt.Errorf("phone %q has no digits", phone)
	}
	_, err := c.send(ctx, c.compose(to, body))
	return err
}

func (c *APIClient) compose(to, body string) message {
	msg := message{Product: "whatsapp", To: to}
	if c.template == "" {
		msg.Type = "text"
		msg.Text = &text{Body: body}
		return msg
	}

	// template parameters are single line
	param := strings.Join(strings.Fields(body), " ")
	if r := []rune(param); len(r) > templateParamLimit {
		param = string(r[:templateParamLimit-1]) + "…"
	}
	msg.Type = "template"
	msg.Template = &template{
		Name:     c.template,
		Language: language{Code: c.language},
		Components: []component{{
			Type:       "body",
			Parameters: []parameter{{Type: "text", Text: param}},
		}},
	}
	return msg
}

// send posts msg and returns the WhatsApp message id.
func (c *APIClient) send(ctx context.Context, msg message) (string, error) {
	result := new(sendResponse)
	apiErr := new(apiError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(result).
		SetError(apiErr).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp %s message: %w", msg.Type, err)
	}
	if resp.IsError() {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return "", fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}
	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
