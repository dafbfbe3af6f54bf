package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

// Repository reads whole sheets from a local .xlsx workbook.
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository builds a workbook-backed repository. The file is opened on
// every read so a replaced workbook is picked up at the next refresh.
func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, logger: logger}
}

// Name describes the source for logs and archived snapshots.
func (r *Repository) Name() string {
	return "workbook:" + r.path
}

// ReadSheet returns every data row of the named sheet keyed by the header
// row. Cell values are raw (unformatted) so numbers and date serials keep
// their stored representation.
func (r *Repository) ReadSheet(ctx context.Context, sheet string) ([]models.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrMissingInputFile, r.path)
		}
		return nil, fmt.Errorf("stat workbook %s: %w", r.path, err)
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("failed closing workbook", zap.String("path", r.path), zap.Error(cerr))
		}
	}()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, r.path)
	}

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	rows := models.RowsFromGrid(grid)
	r.logger.Debug("sheet read", zap.String("sheet", sheet), zap.Int("rows", len(rows)))
	return rows, nil
}
