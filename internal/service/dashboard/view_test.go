package dashboard

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/mamadbah2/cacao/internal/domain/models"
	"github.com/mamadbah2/cacao/internal/service/shipments"
)

func record(season string, month time.Month, exporter, destination string, category models.ProductCategory, tonnes float64) models.ShipmentRecord {
	return models.ShipmentRecord{
		NetWeightKg:  tonnes * 1000,
		VolumeTonnes: tonnes,
		Date:         time.Date(2021, month, 3, 0, 0, 0, 0, time.UTC),
		Season:       season,
		Category:     category,
		Exporter:     exporter,
		Destination:  destination,
		Port:         models.PortAbidjan,
	}
}

func sampleDataset() *models.Dataset {
	records := []models.ShipmentRecord{
		record("2019-2020", time.March, "OLD", "USA", models.CategoryBeans, 9),
		record("2020-2021", time.January, "SACO", "NETHERLANDS", models.CategoryBeans, 4),
		record("2020-2021", time.February, "CARGILL", "USA", models.CategoryLiquor, 2),
		record("2020-2021", time.February, "OLAM", "FRANCE", models.CategoryBeans, 2),
		record("2020-2021", time.January, "SACO", "USA", models.CategoryOther, 1),
	}
	return &models.Dataset{
		Records:       records,
		SeasonVolumes: shipments.AggregateBySeason(records),
	}
}

func TestBuildDefaultsToLatestSeason(t *testing.T) {
	v := Build(sampleDataset(), Options{})

	assert.Equal(t, []string{"2019-2020", "2020-2021"}, v.Seasons)
	assert.Equal(t, "2020-2021", v.Season)
	assert.False(t, v.Empty)
	assert.Equal(t, "18 tonnes", v.GlobalTotal.Text)

	require.Len(t, v.Metrics, 4)
	assert.Equal(t, 9.0, v.Metrics[0].Value)
	assert.Equal(t, 4.0, v.Metrics[1].Value)
	assert.Equal(t, 3.0, v.Metrics[2].Value)
	assert.Equal(t, 6.0, v.Metrics[3].Value)

	require.Len(t, v.Exporters, 3)
	assert.Equal(t, "SACO", v.Exporters[0].Label)
	assert.Equal(t, 5.0, v.Exporters[0].Tonnes)
	// CARGILL and OLAM tie; first appearance wins.
	assert.Equal(t, "CARGILL", v.Exporters[1].Label)
	assert.Equal(t, "OLAM", v.Exporters[2].Label)

	require.Len(t, v.Destinations, 3)
	assert.Equal(t, "NETHERLANDS", v.Destinations[0].Label)
	assert.Equal(t, "USA", v.Destinations[1].Label)

	require.Len(t, v.Products, 3)
	assert.Equal(t, "BEANS", v.Products[0].Label)
	assert.InDelta(t, 66.666, v.Products[0].Share, 0.01)

	require.Len(t, v.Monthly, 2)
	assert.Equal(t, Ranked{Label: "2021-01", Tonnes: 5}, v.Monthly[0])
	assert.Equal(t, Ranked{Label: "2021-02", Tonnes: 4}, v.Monthly[1])

	assert.Equal(t, "2 tonnes", v.Validation[2].Text)
	assert.Nil(t, v.Details)
	assert.Nil(t, v.Consignees)
	require.Len(t, v.History, 2)
	assert.Equal(t, 9.0, v.History[0].Tonnes)
}

func TestBuildSeasonAndDetails(t *testing.T) {
	ds := sampleDataset()
	for i := 0; i < 150; i++ {
		ds.Records = append(ds.Records, record("2019-2020", time.May, fmt.Sprintf("E%d", i), "USA", models.CategoryBeans, 1))
	}

	v := Build(ds, Options{Season: "2019-2020", ShowDetails: true})
	assert.Equal(t, "2019-2020", v.Season)
	assert.Len(t, v.Details, MaxDetailRows)
	assert.Equal(t, "OLD", v.Details[0].Exporter)
	assert.Equal(t, "2021-03-03", v.Details[0].Date)
	assert.Len(t, v.Exporters, TopExporters)
	assert.Equal(t, "151", v.Metrics[1].Text)
}

func TestBuildUnknownSeason(t *testing.T) {
	v := Build(sampleDataset(), Options{Season: "1999-2000"})
	assert.True(t, v.Empty)
	assert.Empty(t, v.Metrics)
	assert.Len(t, v.History, 2)
}

func TestBuildConsignees(t *testing.T) {
	ds := sampleDataset()
	ds.HasConsignee = true
	ds.Records[1].Consignee = "BARRY"
	ds.Records[2].Consignee = "NESTLE"

	v := Build(ds, Options{})
	require.Len(t, v.Consignees, 2)
	assert.Equal(t, "BARRY", v.Consignees[0].Label)
}

func TestRankLimitAndEmptyKeys(t *testing.T) {
	records := []models.ShipmentRecord{
		{Exporter: "A", VolumeTonnes: 1},
		{Exporter: "", VolumeTonnes: 50},
		{Exporter: "B", VolumeTonnes: 3},
		{Exporter: "C", VolumeTonnes: 2},
	}
	got := Rank(records, func(r models.ShipmentRecord) string { return r.Exporter }, 2)
	assert.Equal(t, []Ranked{{Label: "B", Tonnes: 3}, {Label: "C", Tonnes: 2}}, got)
}

func TestFormatTonnes(t *testing.T) {
	assert.Equal(t, "1,234,568 tonnes", FormatTonnes(1234567.6))
	assert.Equal(t, "0 tonnes", FormatTonnes(0.2))
}

func TestRenderPNG(t *testing.T) {
	v := Build(sampleDataset(), Options{})

	for _, spec := range []ChartSpec{SeasonHistoryChart(v), MonthlyChart(v), ExportersChart(v), ProductsChart(v), DestinationsChart(v)} {
		png, err := RenderPNG(spec, 6*vg.Inch, 4*vg.Inch)
		require.NoError(t, err, spec.Title)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), spec.Title)
	}

	_, err := RenderPNG(ChartSpec{Title: "empty"}, 6*vg.Inch, 4*vg.Inch)
	assert.ErrorIs(t, err, ErrNoChartData)
}
