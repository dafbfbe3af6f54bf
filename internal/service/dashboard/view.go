package dashboard

import (
	"math"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

// Display limits of the dashboard sections.
const (
	TopExporters    = 10
	TopConsignees   = 10
	TopDestinations = 15
	MaxDetailRows   = 100
)

// Options selects what a view shows.
type Options struct {
	// Season to display; empty selects the latest season.
	Season      string
	ShowDetails bool
}

// Metric is one headline figure.
type Metric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// Ranked is one bar of a ranking or series.
type Ranked struct {
	Label  string  `json:"label"`
	Tonnes float64 `json:"tonnes"`
	Share  float64 `json:"share"`
}

// DetailRow is one line of the detail table.
type DetailRow struct {
	Date         string  `json:"date"`
	Exporter     string  `json:"exporter"`
	Category     string  `json:"category"`
	Destination  string  `json:"destination"`
	Port         string  `json:"port"`
	VolumeTonnes float64 `json:"volume_tonnes"`
}

// View is everything the dashboard renders for one season.
type View struct {
	GlobalTotal   Metric      `json:"global_total"`
	Seasons       []string    `json:"seasons"`
	Season        string      `json:"season"`
	Empty         bool        `json:"empty"`
	Metrics       []Metric    `json:"metrics"`
	Exporters     []Ranked    `json:"top_exporters"`
	Products      []Ranked    `json:"products"`
	HasConsignees bool        `json:"has_consignees"`
	Consignees    []Ranked    `json:"top_consignees,omitempty"`
	Destinations  []Ranked    `json:"top_destinations"`
	Monthly       []Ranked    `json:"monthly"`
	Validation    []Metric    `json:"validation"`
	ShowDetails   bool        `json:"show_details"`
	Details       []DetailRow `json:"details,omitempty"`
	History       []Ranked    `json:"history"`
}

// Build assembles the view of ds for the requested season. An unknown season
// produces an empty view for that label rather than an error.
func Build(ds *models.Dataset, opts Options) View {
	seasons := ds.Seasons()

	v := View{
		GlobalTotal:   tonnesMetric("Total volume, all seasons", ds.TotalTonnes()),
		Seasons:       seasons,
		Season:        opts.Season,
		HasConsignees: ds.HasConsignee,
		ShowDetails:   opts.ShowDetails,
	}
	if v.Season == "" && len(seasons) > 0 {
		v.Season = seasons[len(seasons)-1]
	}

	for _, sv := range ds.SeasonVolumes {
		v.History = append(v.History, Ranked{Label: sv.Season, Tonnes: sv.Tonnes})
	}

	records := SeasonRecords(ds, v.Season)
	if len(records) == 0 {
		v.Empty = true
		return v
	}

	var total float64
	exporters := make(map[string]struct{})
	byCategory := make(map[models.ProductCategory]float64)
	for _, r := range records {
		total += r.VolumeTonnes
		exporters[r.Exporter] = struct{}{}
		byCategory[r.Category] += r.VolumeTonnes
	}

	v.Metrics = []Metric{
		tonnesMetric("Total volume", total),
		countMetric("Shipments", len(records)),
		countMetric("Exporters", len(exporters)),
		tonnesMetric("Beans", byCategory[models.CategoryBeans]),
	}

	v.Exporters = Rank(records, func(r models.ShipmentRecord) string { return r.Exporter }, TopExporters)
	v.Products = withShares(Rank(records, func(r models.ShipmentRecord) string { return string(r.Category) }, 0), total)
	if ds.HasConsignee {
		v.Consignees = Rank(records, func(r models.ShipmentRecord) string { return r.Consignee }, TopConsignees)
	}
	v.Destinations = Rank(records, func(r models.ShipmentRecord) string { return r.Destination }, TopDestinations)
	v.Monthly = Monthly(records)

	v.Validation = []Metric{
		tonnesMetric("Total volume", total),
		tonnesMetric("Beans", byCategory[models.CategoryBeans]),
		tonnesMetric("Liquor", byCategory[models.CategoryLiquor]),
		countMetric("Shipments", len(records)),
	}

	if opts.ShowDetails {
		v.Details = Details(records, MaxDetailRows)
	}

	return v
}

// SeasonRecords returns the records of one season in dataset order.
func SeasonRecords(ds *models.Dataset, season string) []models.ShipmentRecord {
	if ds == nil {
		return nil
	}
	var out []models.ShipmentRecord
	for _, r := range ds.Records {
		if r.Season == season {
			out = append(out, r)
		}
	}
	return out
}

// Rank sums tonnes per key and orders groups by descending total. Groups with
// equal totals keep the order in which their key first appeared. Empty keys
// are ignored. limit <= 0 keeps every group.
func Rank(records []models.ShipmentRecord, key func(models.ShipmentRecord) string, limit int) []Ranked {
	index := make(map[string]int)
	var out []Ranked
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Ranked{Label: k})
		}
		out[i].Tonnes += r.VolumeTonnes
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Tonnes > out[j].Tonnes })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Monthly sums tonnes per calendar month ("2006-01"), ascending.
func Monthly(records []models.ShipmentRecord) []Ranked {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.Date.Format("2006-01")] += r.VolumeTonnes
	}
	out := make([]Ranked, 0, len(totals))
	for month, tonnes := range totals {
		out = append(out, Ranked{Label: month, Tonnes: tonnes})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Details projects at most limit records into table rows.
func Details(records []models.ShipmentRecord, limit int) []DetailRow {
	if len(records) > limit {
		records = records[:limit]
	}
	out := make([]DetailRow, 0, len(records))
	for _, r := range records {
		out = append(out, DetailRow{
			Date:         r.Date.Format("2006-01-02"),
			Exporter:     r.Exporter,
			Category:     string(r.Category),
			Destination:  r.Destination,
			Port:         string(r.Port),
			VolumeTonnes: r.VolumeTonnes,
		})
	}
	return out
}

func withShares(ranked []Ranked, total float64) []Ranked {
	if total <= 0 {
		return ranked
	}
	for i := range ranked {
		ranked[i].Share = ranked[i].Tonnes / total * 100
	}
	return ranked
}

func tonnesMetric(label string, tonnes float64) Metric {
	return Metric{Label: label, Value: tonnes, Text: FormatTonnes(tonnes)}
}

func countMetric(label string, n int) Metric {
	return Metric{Label: label, Value: float64(n), Text: humanize.Comma(int64(n))}
}

// FormatTonnes renders a rounded tonnage with thousands separators.
func FormatTonnes(tonnes float64) string {
	return humanize.Comma(int64(math.Round(tonnes))) + " tonnes"
}
