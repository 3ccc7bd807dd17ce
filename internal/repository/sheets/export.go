package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dcastano/miscelanea/internal/config"
)

const summaryRange = "Resumen!A:G"

// Exporter appends daily sales summaries to a spreadsheet so the owner
// can keep books outside the system.
type Exporter interface {
	AppendDailySummary(ctx context.Context, row DailySummaryRow) error
}

// DailySummaryRow is one bookkeeping line: a calendar day of sales.
type DailySummaryRow struct {
	Fecha          string
	NumVentas      int
	Subtotal       float64
	IVA            float64
	Total          float64
	TotalGanancias float64
	Anuladas       int
}

// GoogleSheetExporter implements Exporter using the official Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Sheets-backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailySummary appends the summary as one row of the Resumen sheet.
func (e *GoogleSheetExporter) AppendDailySummary(ctx context.Context, row DailySummaryRow) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{{
		row.Fecha,
		row.NumVentas,
		row.Subtotal,
		row.IVA,
		row.Total,
		row.TotalGanancias,
		row.Anuladas,
	}}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row for %s: %w", row.Fecha, err)
	}

	e.logger.Debug("daily summary exported", zap.String("fecha", row.Fecha))
	return nil
}
