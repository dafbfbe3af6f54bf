package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/cacao/internal/config"
	"github.com/mamadbah2/cacao/internal/domain/models"
)

// valueGetter is the slice of the Sheets API used by the repository.
type valueGetter interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

type apiValueGetter struct {
	service *sheetsapi.Service
}

func (g apiValueGetter) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := g.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// GoogleSheetRepository reads shipment tabs from a Google Sheets spreadsheet
// laid out like the export workbook.
type GoogleSheetRepository struct {
	values        valueGetter
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance
// with read-only scope.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		values:        apiValueGetter{service: service},
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// Name describes the source for logs and archived snapshots.
func (r *GoogleSheetRepository) Name() string {
	return "gsheets:" + r.spreadsheetID
}

// ReadSheet fetches the whole tab and keys each row by the header row.
// Numbers arrive unformatted so they parse the same way workbook cells do.
func (r *GoogleSheetRepository) ReadSheet(ctx context.Context, sheet string) ([]models.RawRow, error) {
	if sheet == "" {
		return nil, fmt.Errorf("sheet name must not be empty")
	}

	// Quoted so tab names with spaces resolve to the whole sheet.
	sheetRange := fmt.Sprintf("'%s'", sheet)
	grid, err := r.values.GetValues(ctx, r.spreadsheetID, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	rows := models.RowsFromGrid(grid)
	r.logger.Debug("sheet range read", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return rows, nil
}
