package shipments

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

// Source reads one sheet of shipment rows. Implementations return an error
// matching models.ErrMissingInputFile when the backing file is absent.
type Source interface {
	ReadSheet(ctx context.Context, sheet string) ([]models.RawRow, error)
	Name() string
}

// SheetPort binds a sheet name to the port its rows are attributed to.
type SheetPort struct {
	Sheet string
	Port  models.Port
}

// Loader reads the per-port sheets and concatenates them.
type Loader struct {
	source Source
	sheets []SheetPort
	logger *zap.Logger
}

// NewLoader builds a loader reading the given sheets in order.
func NewLoader(source Source, sheets []SheetPort, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, sheets: sheets, logger: logger}
}

// Load returns the rows of every configured sheet tagged with their port.
// Rows of an earlier sheet precede those of a later one and keep their order
// within the sheet.
func (l *Loader) Load(ctx context.Context) ([]models.ShipmentRow, error) {
	var out []models.ShipmentRow

	for _, sp := range l.sheets {
		rows, err := l.source.ReadSheet(ctx, sp.Sheet)
		if err != nil {
			return nil, fmt.Errorf("load sheet %q: %w", sp.Sheet, err)
		}

		for _, row := range rows {
			out = append(out, models.ShipmentRow{Port: sp.Port, Row: row})
		}
		l.logger.Debug("sheet loaded", zap.String("sheet", sp.Sheet), zap.String("port", string(sp.Port)), zap.Int("rows", len(rows)))
	}

	return out, nil
}
