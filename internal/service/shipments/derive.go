package shipments

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

// Derive turns normalized shipment rows into records and the season
// aggregate. It performs no I/O. Rows without a positive numeric net weight
// or a numeric date serial are dropped; a date serial outside the supported
// range fails the whole derivation.
func Derive(rows []models.ShipmentRow) (*models.Dataset, error) {
	records := make([]models.ShipmentRecord, 0, len(rows))
	hasConsignee := false

	for i, sr := range rows {
		if sr.Row.Has(models.ColumnConsignee) {
			hasConsignee = true
		}

		weight, ok := parseNumber(sr.Row[models.ColumnNetWeight])
		if !ok || weight <= 0 {
			continue
		}

		serial, ok := parseNumber(sr.Row[models.ColumnDateSerial])
		if !ok {
			continue
		}
		date, err := DateFromSerial(serial)
		if err != nil {
			return nil, &PipelineError{Stage: "date row " + strconv.Itoa(i), Err: err}
		}

		year, month := date.Year(), int(date.Month())
		code := sr.Row[models.ColumnProductCode]

		records = append(records, models.ShipmentRecord{
			NetWeightKg:  weight,
			VolumeTonnes: weight / 1000,
			DateSerial:   serial,
			Date:         date,
			Year:         year,
			Month:        month,
			Season:       SeasonLabel(year, month),
			ProductCode:  code,
			Category:     ClassifyProduct(code),
			Exporter:     orUnknown(sr.Row[models.ColumnExporter]),
			Destination:  orUnknown(sr.Row[models.ColumnDestination]),
			Consignee:    sr.Row[models.ColumnConsignee],
			Port:         sr.Port,
		})
	}

	return &models.Dataset{
		Records:       records,
		SeasonVolumes: AggregateBySeason(records),
		HasConsignee:  hasConsignee,
	}, nil
}

// AggregateBySeason sums tonnes per season, ascending by season label.
func AggregateBySeason(records []models.ShipmentRecord) []models.SeasonVolume {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.Season] += r.VolumeTonnes
	}

	out := make([]models.SeasonVolume, 0, len(totals))
	for season, tonnes := range totals {
		out = append(out, models.SeasonVolume{Season: season, Tonnes: tonnes})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func orUnknown(v string) string {
	if v == "" {
		return models.Unknown
	}
	return v
}
