package reporting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/domain/models"
	"github.com/mamadbah2/cacao/internal/service/dashboard"
)

// DatasetProvider yields the current shipment dataset.
type DatasetProvider interface {
	Dataset(ctx context.Context) (*models.Dataset, error)
}

// Service builds plain-text summaries of the shipment dataset.
type Service struct {
	data   DatasetProvider
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(data DatasetProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{data: data, logger: logger}
}

// SeasonDigest summarizes a season: total volume, beans, liquor and shipment
// count, followed by the per-season history. An empty season means the
// latest one.
func (s *Service) SeasonDigest(ctx context.Context, season string) (string, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return "", fmt.Errorf("load shipments: %w", err)
	}

	view := dashboard.Build(ds, dashboard.Options{Season: season})
	if view.Season == "" {
		return "Cocoa exports: no shipments loaded yet.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cocoa exports, season %s\n", view.Season)
	if view.Empty {
		fmt.Fprintf(&b, "No shipments recorded for %s.\n", view.Season)
	} else {
		for _, m := range view.Validation {
			fmt.Fprintf(&b, "- %s: %s\n", m.Label, m.Text)
		}
		if len(view.Exporters) > 0 {
			top := view.Exporters[0]
			fmt.Fprintf(&b, "- Leading exporter: %s (%s)\n", top.Label, dashboard.FormatTonnes(top.Tonnes))
		}
	}

	b.WriteString("\nVolume by season:\n")
	for _, h := range view.History {
		fmt.Fprintf(&b, "- %s: %s\n", h.Label, dashboard.FormatTonnes(h.Tonnes))
	}

	s.logger.Debug("season digest built", zap.String("season", view.Season), zap.Int("seasons", len(view.History)))
	return strings.TrimRight(b.String(), "\n"), nil
}
