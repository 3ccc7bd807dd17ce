package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dcastano/miscelanea/internal/config"
	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/reporting"
	client "github.com/dcastano/miscelanea/pkg/clients/telegram"
)

type fakeClient struct {
	sent []client.SendMessageRequest
}

func (f *fakeClient) SendMessage(ctx context.Context, req client.SendMessageRequest) (*client.SendMessageResponse, error) {
	f.sent = append(f.sent, req)
	return &client.SendMessageResponse{OK: true}, nil
}

type fakeFinder struct {
	products []models.Product
}

func (f *fakeFinder) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	return f.products, nil
}

type fakeReporter struct {
	summary reporting.DaySummary
}

func (f *fakeReporter) SummarizeDay(ctx context.Context, day time.Time) (reporting.DaySummary, error) {
	return f.summary, nil
}

func (f *fakeReporter) FormatDaySummary(summary reporting.DaySummary) string {
	return "resumen del dia"
}

func newTestBot(api *fakeClient, finder *fakeFinder) *Service {
	cfg := config.TelegramConfig{Token: "t", ChatID: "chat-1"}
	return NewService(cfg, api, finder, &fakeReporter{}, nil)
}

func update(text string) models.TelegramUpdate {
	return models.TelegramUpdate{
		UpdateID: 1,
		Message: &models.TelegramMessage{
			Chat: models.TelegramChat{ID: 42},
			Text: text,
		},
	}
}

func TestHandleUpdateStockCommand(t *testing.T) {
	api := &fakeClient{}
	finder := &fakeFinder{products: []models.Product{
		{Nombre: "Coca Cola 350ml", Stock: 7},
		{Nombre: "Coca Cola 1L", Stock: 3},
	}}
	bot := newTestBot(api, finder)

	if err := bot.HandleUpdate(context.Background(), update("/stock coca")); err != nil {
		t.Fatalf("handle update failed: %v", err)
	}

	if len(api.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(api.sent))
	}
	reply := api.sent[0]
	if reply.ChatID != "42" {
		t.Fatalf("reply must go to the originating chat, got %s", reply.ChatID)
	}
	if !strings.Contains(reply.Text, "Coca Cola 350ml: 7") || !strings.Contains(reply.Text, "Coca Cola 1L: 3") {
		t.Fatalf("unexpected reply:\n%s", reply.Text)
	}
}

func TestHandleUpdateStockWithoutMatches(t *testing.T) {
	api := &fakeClient{}
	bot := newTestBot(api, &fakeFinder{})

	if err := bot.HandleUpdate(context.Background(), update("/stock unicornio")); err != nil {
		t.Fatalf("handle update failed: %v", err)
	}
	if !strings.Contains(api.sent[0].Text, "No encontré") {
		t.Fatalf("unexpected reply: %s", api.sent[0].Text)
	}
}

func TestHandleUpdateStockWithoutArgsShowsUsage(t *testing.T) {
	api := &fakeClient{}
	bot := newTestBot(api, &fakeFinder{})

	if err := bot.HandleUpdate(context.Background(), update("/stock")); err != nil {
		t.Fatalf("handle update failed: %v", err)
	}
	if !strings.Contains(api.sent[0].Text, "Uso:") {
		t.Fatalf("unexpected reply: %s", api.sent[0].Text)
	}
}

func TestHandleUpdateVentasCommand(t *testing.T) {
	api := &fakeClient{}
	bot := newTestBot(api, &fakeFinder{})

	if err := bot.HandleUpdate(context.Background(), update("/ventas")); err != nil {
		t.Fatalf("handle update failed: %v", err)
	}
	if api.sent[0].Text != "resumen del dia" {
		t.Fatalf("unexpected reply: %s", api.sent[0].Text)
	}
}

func TestHandleUpdateUnknownShowsHelp(t *testing.T) {
	api := &fakeClient{}
	bot := newTestBot(api, &fakeFinder{})

	if err := bot.HandleUpdate(context.Background(), update("hola que tal")); err != nil {
		t.Fatalf("handle update failed: %v", err)
	}
	if !strings.Contains(api.sent[0].Text, "/stock") {
		t.Fatalf("expected help text, got: %s", api.sent[0].Text)
	}
}

func TestHandleUpdateIgnoresNonMessages(t *testing.T) {
	api := &fakeClient{}
	bot := newTestBot(api, &fakeFinder{})

	if err := bot.HandleUpdate(context.Background(), models.TelegramUpdate{UpdateID: 9}); err != nil {
		t.Fatalf("non-message update must be acknowledged, got %v", err)
	}
	if len(api.sent) != 0 {
		t.Fatalf("no reply expected, got %d", len(api.sent))
	}
}

func TestNotifyStoreTargetsConfiguredChat(t *testing.T) {
	api := &fakeClient{}
	bot := newTestBot(api, &fakeFinder{})

	if err := bot.NotifyStore(context.Background(), "stock bajo"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if api.sent[0].ChatID != "chat-1" || api.sent[0].ParseMode != "" {
		t.Fatalf("unexpected request: %+v", api.sent[0])
	}

	if err := bot.NotifyStoreHTML(context.Background(), "<b>hola</b>"); err != nil {
		t.Fatalf("notify html failed: %v", err)
	}
	if api.sent[1].ParseMode != "HTML" {
		t.Fatalf("expected HTML parse mode, got %q", api.sent[1].ParseMode)
	}
}
