package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/service/commands"
	"github.com/mamadbah2/foodops/pkg/clients/anthropic"
	client "github.com/mamadbah2/foodops/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	translator anthropic.Client
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. translator may be
// nil, in which case only slash commands are understood.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, translator anthropic.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		translator: translator,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

var usage = map[models.CommandType]string{
	models.CommandCashIn:     "Usage: /cashin <amount> <description>, e.g. /cashin 500000 customer advance.",
	models.CommandCashOut:    "Usage: /cashout <amount> <description>, e.g. /cashout 20000 fuel.",
	models.CommandProduction: "Usage: /production <kilos in> <kilos out>, e.g. /production 1000 120.",
	models.CommandUnknown:    "Unknown command. Supported: /cashin, /cashout, /balance, /production, /summary.",
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := extractMessageText(msg)
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type))
		return nil
	}

	text = s.translate(ctx, text)
	cmd := models.ParseCommand(text)

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, handleErr := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if handleErr != nil {
		reply = replyForError(cmd, handleErr)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{To: msg.From, Body: reply}); err != nil {
		return fmt.Errorf("reply to %s: %w", msg.From, err)
	}

	if handleErr != nil && !isUserError(handleErr) {
		return fmt.Errorf("handle %s: %w", cmd.Type, handleErr)
	}
	return nil
}

// translate maps free text to a slash command when a translator is set.
func (s *MetaWhatsAppService) translate(ctx context.Context, text string) string {
	if models.IsSlashCommand(text) || s.translator == nil {
		return text
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	translated, err := s.translator.TranslateToCommand(ctxWithTimeout, text)
	if err != nil {
		s.logger.Warn("free text translation failed", zap.Error(err))
		return text
	}
	s.logger.Debug("free text translated", zap.String("input", text), zap.String("command", translated))
	return translated
}

func isUserError(err error) bool {
	return errors.Is(err, commands.ErrInvalidArguments) ||
		errors.Is(err, commands.ErrUnsupportedCommand) ||
		models.IsValidation(err)
}

func replyForError(cmd models.Command, err error) string {
	var ve models.ValidationError
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		if hint, ok := usage[cmd.Type]; ok {
			return hint
		}
		return usage[models.CommandUnknown]
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return usage[models.CommandUnknown]
	case errors.As(err, &ve):
		return fmt.Sprintf("Not saved: %s %s.", ve.Field, ve.Message)
	default:
		return "Sorry, that could not be saved. Please try again later."
	}
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
