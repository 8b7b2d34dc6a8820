package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/service/commands"
	client "github.com/mamadbah2/foodops/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

type fakeDispatcher struct {
	got   []models.Command
	reply string
	err   error
}

func (f *fakeDispatcher) HandleCommand(_ context.Context, cmd models.Command, _ string) (string, error) {
	f.got = append(f.got, cmd)
	return f.reply, f.err
}

type fakeTranslator struct{ out string }

func (f fakeTranslator) TranslateToCommand(context.Context, string) (string, error) {
	return f.out, nil
}

func payload(texts ...string) models.WebhookPayload {
	var msgs []models.InboundMessage
	for i, text := range texts {
		msgs = append(msgs, models.InboundMessage{
			From: "224600000000",
			ID:   string(rune('a' + i)),
			Type: "text",
			Text: &models.TextContent{Body: text},
		})
	}
	return models.WebhookPayload{Entry: []models.WebhookEntry{{Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: msgs}}}}}}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "tok"}, &fakeClient{}, &fakeDispatcher{}, nil, nil)

	tests := []struct {
		name, mode, token string
		wantErr           bool
	}{
		{name: "ok", mode: "subscribe", token: "tok"},
		{name: "wrong token", mode: "subscribe", token: "nope", wantErr: true},
		{name: "wrong mode", mode: "unsubscribe", token: "tok", wantErr: true},
		{name: "missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			challenge, err := svc.VerifyWebhookToken(tt.mode, tt.token, "42")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err == nil && challenge != "42" {
				t.Fatalf("challenge = %q", challenge)
			}
		})
	}
}

func TestHandleWebhookRepliesWithDispatcherOutput(t *testing.T) {
	wa := &fakeClient{}
	disp := &fakeDispatcher{reply: "Petty cash balance: 420."}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, disp, nil, nil)

	if err := svc.HandleWebhook(context.Background(), payload("/balance")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(wa.sent) != 1 || wa.sent[0].Body != "Petty cash balance: 420." || wa.sent[0].To != "224600000000" {
		t.Fatalf("sent = %+v", wa.sent)
	}
}

func TestHandleWebhookTranslatesFreeText(t *testing.T) {
	disp := &fakeDispatcher{reply: "ok"}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, &fakeClient{}, disp, fakeTranslator{out: "/cashout 20000 carburant"}, nil)

	if err := svc.HandleWebhook(context.Background(), payload("payé 20000 carburant", "/balance")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(disp.got) != 2 {
		t.Fatalf("dispatched %d commands", len(disp.got))
	}
	if disp.got[0].Type != models.CommandCashOut || disp.got[1].Type != models.CommandBalance {
		t.Fatalf("commands = %+v", disp.got)
	}
}

func TestHandleWebhookErrorReplies(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		err     error
		want    string
		wantErr bool
	}{
		{name: "usage hint", text: "/cashin", err: commands.ErrInvalidArguments, want: "Usage: /cashin"},
		{name: "unknown", text: "/eggs", err: commands.ErrUnsupportedCommand, want: "Unknown command"},
		{name: "validation", text: "/production 0 1", err: models.ValidationError{Field: "kilos_in", Message: "must be greater than zero"}, want: "Not saved: kilos_in"},
		{name: "storage failure", text: "/balance", err: errors.New("db down"), want: "try again", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wa := &fakeClient{}
			svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, &fakeDispatcher{err: tt.err}, nil, nil)

			err := svc.HandleWebhook(context.Background(), payload(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(wa.sent) != 1 || !strings.Contains(wa.sent[0].Body, tt.want) {
				t.Fatalf("sent = %+v, want reply containing %q", wa.sent, tt.want)
			}
		})
	}
}
