package whatsapp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	client "github.com/mamadbah2/portaria/pkg/clients/whatsapp"
)

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{client: client, logger: logger}
}

// SendOutbound delivers one text message.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if req.To == "" || req.Message == "" {
		return errors.New("recipient and message are required")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			s.logger.Error("whatsapp rejected message",
				zap.Int("status", apiErr.Status),
				zap.Int("code", apiErr.Code),
				zap.String("type", apiErr.Type),
				zap.String("fbtrace_id", apiErr.FBTraceID))
		}
		return err
	}

	if len(resp.Messages) > 0 {
		s.logger.Debug("whatsapp message accepted", zap.String("message_id", resp.Messages[0].ID))
	}
	return nil
}
