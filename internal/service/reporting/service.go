package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/sheets"
)

const dateLayout = "2006-01-02"

// Store is the read surface the reporting service depends on.
type Store interface {
	SalesBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error)
	ListLowStock(ctx context.Context, globalThreshold int) ([]models.Product, error)
}

// Service aggregates sales into the day summaries shown in chat and
// exported to the bookkeeping spreadsheet.
type Service struct {
	store     Store
	exporter  sheets.Exporter
	threshold int
	logger    *zap.Logger
}

// NewService wires a reporting service. exporter may be nil when the
// spreadsheet export is not configured.
func NewService(store Store, exporter sheets.Exporter, lowStockThreshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, exporter: exporter, threshold: lowStockThreshold, logger: logger}
}

// DaySummary aggregates one calendar day of sales. Voided sales are
// counted separately and excluded from the money totals.
type DaySummary struct {
	Fecha          time.Time
	NumVentas      int
	Anuladas       int
	Subtotal       float64
	IVA            float64
	Total          float64
	TotalGanancias float64
}

// SummarizeDay aggregates the sales of the day containing the given
// moment, interpreted in its own location.
func (s *Service) SummarizeDay(ctx context.Context, day time.Time) (DaySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	sales, err := s.store.SalesBetween(ctx, start, end)
	if err != nil {
		return DaySummary{}, fmt.Errorf("load sales for %s: %w", start.Format(dateLayout), err)
	}

	summary := DaySummary{Fecha: start}
	for _, sale := range sales {
		if sale.Anulada {
			summary.Anuladas++
			continue
		}
		summary.NumVentas++
		summary.Subtotal += sale.Subtotal
		summary.IVA += sale.IVA
		summary.Total += sale.Total
		summary.TotalGanancias += sale.TotalGanancias
	}

	return summary, nil
}

// FormatDaySummary renders the summary as a chat message.
func (s *Service) FormatDaySummary(summary DaySummary) string {
	if summary.NumVentas == 0 && summary.Anuladas == 0 {
		return fmt.Sprintf("📋 Resumen del %s: sin ventas registradas.", summary.Fecha.Format(dateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Resumen del %s\n", summary.Fecha.Format(dateLayout))
	fmt.Fprintf(&b, "Ventas: %d", summary.NumVentas)
	if summary.Anuladas > 0 {
		fmt.Fprintf(&b, " (%d anuladas)", summary.Anuladas)
	}
	fmt.Fprintf(&b, "\nSubtotal: $%.2f\nIVA: $%.2f\nTotal: $%.2f\nGanancias: $%.2f",
		summary.Subtotal, summary.IVA, summary.Total, summary.TotalGanancias)
	return b.String()
}

// LowStockReport lists the products at or below their restock threshold,
// or an empty string when everything is fine.
func (s *Service) LowStockReport(ctx context.Context) (string, error) {
	products, err := s.store.ListLowStock(ctx, s.threshold)
	if err != nil {
		return "", fmt.Errorf("load low stock: %w", err)
	}
	if len(products) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(products)+1)
	lines = append(lines, "📦 Productos por reponer:")
	for _, product := range products {
		lines = append(lines, fmt.Sprintf("- %s: %d unidades", product.Nombre, product.Stock))
	}
	return strings.Join(lines, "\n"), nil
}

// ExportDaySummary appends the summary to the bookkeeping spreadsheet.
// A no-op when no exporter is configured.
func (s *Service) ExportDaySummary(ctx context.Context, summary DaySummary) error {
	if s.exporter == nil {
		return nil
	}

	row := sheets.DailySummaryRow{
		Fecha:          summary.Fecha.Format(dateLayout),
		NumVentas:      summary.NumVentas,
		Subtotal:       summary.Subtotal,
		IVA:            summary.IVA,
		Total:          summary.Total,
		TotalGanancias: summary.TotalGanancias,
		Anuladas:       summary.Anuladas,
	}

	if err := s.exporter.AppendDailySummary(ctx, row); err != nil {
		return fmt.Errorf("export day summary: %w", err)
	}

	s.logger.Info("day summary exported", zap.String("fecha", row.Fecha))
	return nil
}
