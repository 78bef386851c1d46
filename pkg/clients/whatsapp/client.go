// Package whatsapp is a minimal WhatsApp Cloud API client able to deliver
// plain text messages.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/portaria/internal/config"
)

// Client sends text messages through the Cloud API.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error)
}

// SendTextMessageRequest is one outbound text.
type SendTextMessageRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendTextMessageResponse lists the message IDs Meta accepted.
type SendTextMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is a rejected request. Code is Meta's error code when the body
// carries one, the HTTP status otherwise.
type APIError struct {
	Status    int
	Code      int
	Type      string
	Message   string
	FBTraceID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d type=%s message=%s fbtrace_id=%s",
		e.Status, e.Code, e.Type, e.Message, e.FBTraceID)
}

type errorEnvelope struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body       string `json:"body"`
		PreviewURL bool   `json:"preview_url"`
	} `json:"text"`
}

// APIClient talks to graph.facebook.com (or cfg.BaseURL) with resty.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a client for the sender phone number in cfg.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.APIVersion

	return &APIClient{
		http: resty.New().
			SetBaseURL(base).
			SetAuthToken(cfg.AccessToken).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendTextMessage posts req to the messages endpoint. Rejections come back as
// *APIError.
func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	payload := textPayload{MessagingProduct: "whatsapp", To: req.To, Type: "text"}
	payload.Text.Body = req.Body
	payload.Text.PreviewURL = req.PreviewURL

	var (
		accepted SendTextMessageResponse
		rejected errorEnvelope
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&accepted).
		SetError(&rejected).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := &APIError{
			Status:    resp.StatusCode(),
			Code:      rejected.Error.Code,
			Type:      rejected.Error.Type,
			Message:   rejected.Error.Message,
			FBTraceID: rejected.Error.FBTraceID,
		}
		if apiErr.Code == 0 {
			apiErr.Code = apiErr.Status
		}
		return nil, apiErr
	}

	return &accepted, nil
}
