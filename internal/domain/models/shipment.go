package models

import "time"

// Port identifies the export port a shipment left from. Values come from the
// sheet a row was read from, never from the row itself.
type Port string

const (
	PortAbidjan  Port = "ABIDJAN"
	PortSanPedro Port = "SAN PEDRO"
)

// ProductCategory buckets tariff codes by their four-digit prefix.
type ProductCategory string

const (
	CategoryBeans     ProductCategory = "BEANS"
	CategoryLiquor    ProductCategory = "LIQUOR"
	CategoryButter    ProductCategory = "BUTTER"
	CategoryPowder    ProductCategory = "POWDER"
	CategoryChocolate ProductCategory = "CHOCOLATE"
	CategoryOther     ProductCategory = "OTHER"
)

// Unknown fills missing categorical values (exporter, destination, season).
const Unknown = "UNKNOWN"

// ShipmentRecord is one derived export transaction.
type ShipmentRecord struct {
	NetWeightKg  float64         `json:"net_weight_kg" bson:"net_weight_kg"`
	VolumeTonnes float64         `json:"volume_tonnes" bson:"volume_tonnes"`
	DateSerial   float64         `json:"date_serial" bson:"date_serial"`
	Date         time.Time       `json:"date" bson:"date"`
	Year         int             `json:"year" bson:"year"`
	Month        int             `json:"month" bson:"month"`
	Season       string          `json:"season" bson:"season"`
	ProductCode  string          `json:"product_code,omitempty" bson:"product_code,omitempty"`
	Category     ProductCategory `json:"category" bson:"category"`
	Exporter     string          `json:"exporter" bson:"exporter"`
	Destination  string          `json:"destination" bson:"destination"`
	Consignee    string          `json:"consignee,omitempty" bson:"consignee,omitempty"`
	Port         Port            `json:"port" bson:"port"`
}

// SeasonVolume is the total tonnage shipped during one cocoa season.
type SeasonVolume struct {
	Season string  `json:"season" bson:"season"`
	Tonnes float64 `json:"tonnes" bson:"tonnes"`
}

// Dataset is the derived record set plus the season aggregate computed
// alongside it.
type Dataset struct {
	Records       []ShipmentRecord
	SeasonVolumes []SeasonVolume
	// HasConsignee is set when at least one source sheet carries the
	// optional consignee column.
	HasConsignee bool
	LoadedAt     time.Time
}

// Seasons lists the season labels of the aggregate in ascending order.
func (d *Dataset) Seasons() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.SeasonVolumes))
	for _, sv := range d.SeasonVolumes {
		out = append(out, sv.Season)
	}
	return out
}

// TotalTonnes sums the volume of every record.
func (d *Dataset) TotalTonnes() float64 {
	if d == nil {
		return 0
	}
	var total float64
	for _, r := range d.Records {
		total += r.VolumeTonnes
	}
	return total
}
