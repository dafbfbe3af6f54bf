package models

import "time"

// SeasonSnapshot is the season aggregate archived after each successful
// refresh.
type SeasonSnapshot struct {
	RefreshedAt time.Time      `bson:"refreshed_at" json:"refreshed_at"`
	Source      string         `bson:"source" json:"source"`
	Records     int            `bson:"records" json:"records"`
	TotalTonnes float64        `bson:"total_tonnes" json:"total_tonnes"`
	Seasons     []SeasonVolume `bson:"seasons" json:"seasons"`
}
