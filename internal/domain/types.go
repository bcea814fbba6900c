package domain

import "time"

// StationInfo identifies a DWD weather station. Only the station ID is
// guaranteed by the upstream API; everything else may be missing.
type StationInfo struct {
	StationID   string   `json:"station_id"`
	StationName *string  `json:"station_name,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Elevation   *float64 `json:"elevation,omitempty"` // meters
	State       *string  `json:"state,omitempty"`     // Bundesland, e.g. "Berlin"
}

// WeatherMeasurement is a single observed parameter at a station.
// It has no identity of its own and only ever lives inside a StationData.
type WeatherMeasurement struct {
	Parameter string     `json:"parameter"`
	Value     *float64   `json:"value,omitempty"`
	Unit      *string    `json:"unit,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Quality   *string    `json:"quality,omitempty"`
}

// StationData is a station together with its current measurements.
// Measurement order is upstream order and is never rearranged.
type StationData struct {
	Station      StationInfo          `json:"station"`
	Measurements []WeatherMeasurement `json:"measurements"`
	LastUpdated  *time.Time           `json:"last_updated,omitempty"`
}

// WarningInfo is an active weather warning from the nowcast feed.
// Level is 1-4 by DWD convention but is not enforced at parse time;
// upstream has been seen emitting values outside that range.
type WarningInfo struct {
	WarningID   string     `json:"warning_id"`
	Level       int        `json:"level"`
	Type        string     `json:"type"`
	Headline    string     `json:"headline"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"` // absent for ongoing warnings
	Regions     []string   `json:"regions"`
}

// CrowdReport is a user-submitted weather observation.
type CrowdReport struct {
	ReportID         string     `json:"report_id"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	WeatherCondition string     `json:"weather_condition"`
	Temperature      *float64   `json:"temperature,omitempty"` // °C
	Timestamp        time.Time  `json:"timestamp"`
	UserComment      *string    `json:"user_comment,omitempty"`
}
