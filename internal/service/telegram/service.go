package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/config"
	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/reporting"
	client "github.com/dcastano/miscelanea/pkg/clients/telegram"
)

// ProductFinder resolves the stock lookups behind the /stock command.
type ProductFinder interface {
	SearchByName(ctx context.Context, name string) ([]models.Product, error)
}

// Reporter builds the day summary behind the /ventas command.
type Reporter interface {
	SummarizeDay(ctx context.Context, day time.Time) (reporting.DaySummary, error)
	FormatDaySummary(summary reporting.DaySummary) string
}

// BotService describes the operations the HTTP layer can perform.
type BotService interface {
	HandleUpdate(ctx context.Context, update models.TelegramUpdate) error
	NotifyStore(ctx context.Context, text string) error
	NotifyStoreHTML(ctx context.Context, text string) error
}

// Service is the production bot backed by the Telegram Bot API.
type Service struct {
	cfg      config.TelegramConfig
	client   client.Client
	products ProductFinder
	reports  Reporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a bot service instance.
func NewService(cfg config.TelegramConfig, apiClient client.Client, products ProductFinder, reports Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		client:   apiClient,
		products: products,
		reports:  reports,
		logger:   logger,
		now:      time.Now,
	}
}

const helpText = "Comandos disponibles:\n" +
	"/stock <nombre> — consultar existencias\n" +
	"/ventas — resumen de ventas de hoy\n" +
	"/status — estado del sistema\n" +
	"/hola — saludo"

// HandleUpdate processes one inbound webhook update. Updates without a
// text message are acknowledged and dropped, as Telegram retries on
// non-2xx responses.
func (s *Service) HandleUpdate(ctx context.Context, update models.TelegramUpdate) error {
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		return nil
	}

	msg := update.Message
	cmd := models.ParseCommand(msg.Text)

	s.logger.Info("bot command received",
		zap.String("command", string(cmd.Type)),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Any("args", cmd.Args))

	reply, err := s.buildReply(ctx, cmd)
	if err != nil {
		return err
	}

	return s.send(ctx, strconv.FormatInt(msg.Chat.ID, 10), reply, "")
}

func (s *Service) buildReply(ctx context.Context, cmd models.Command) (string, error) {
	switch cmd.Type {
	case models.CommandHola:
		return "¡Hola! El bot de la miscelánea está activo ✔️", nil
	case models.CommandStatus:
		return "Sistema funcionando correctamente ⚙️", nil
	case models.CommandStock:
		return s.stockReply(ctx, cmd.Args)
	case models.CommandVentas:
		summary, err := s.reports.SummarizeDay(ctx, s.now())
		if err != nil {
			return "", fmt.Errorf("summarize day: %w", err)
		}
		return s.reports.FormatDaySummary(summary), nil
	default:
		return helpText, nil
	}
}

func (s *Service) stockReply(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "Uso: /stock <nombre del producto>", nil
	}

	name := strings.Join(args, " ")
	products, err := s.products.SearchByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("search products: %w", err)
	}
	if len(products) == 0 {
		return fmt.Sprintf("No encontré productos que coincidan con %q.", name), nil
	}

	lines := make([]string, 0, len(products))
	for _, product := range products {
		lines = append(lines, fmt.Sprintf("%s: %d unidades", product.Nombre, product.Stock))
	}
	return strings.Join(lines, "\n"), nil
}

// NotifyStore sends plain text to the configured store chat.
func (s *Service) NotifyStore(ctx context.Context, text string) error {
	return s.send(ctx, s.cfg.ChatID, text, "")
}

// NotifyStoreHTML sends HTML-formatted text to the configured store chat.
func (s *Service) NotifyStoreHTML(ctx context.Context, text string) error {
	return s.send(ctx, s.cfg.ChatID, text, "HTML")
}

func (s *Service) send(ctx context.Context, chatID, text, parseMode string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendMessage(ctxWithTimeout, client.SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
	return err
}
