// Package report renders validated weather records as deterministic,
// line-oriented text. Formatting the same record slice twice yields
// byte-identical output; optional fields that are absent are omitted
// rather than shown as placeholders.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/dwd-mcp/internal/domain"
)

// Fixed empty-result sentences, emitted without a heading.
const (
	NoStations = "No weather stations found."
	NoWarnings = "No weather warnings found."
	NoReports  = "No crowd reports found."
)

// Stations renders a station report. Field line order per station:
// ID, location, elevation, state, measurements, last updated.
func Stations(stations []domain.StationData) string {
	if len(stations) == 0 {
		return NoStations
	}

	lines := []string{"# Weather Stations", ""}
	for _, s := range stations {
		name := "Unknown"
		if s.Station.StationName != nil {
			name = *s.Station.StationName
		}
		lines = append(lines, fmt.Sprintf("## Station: %s", name))
		lines = append(lines, fmt.Sprintf("- **ID**: %s", s.Station.StationID))

		if s.Station.Latitude != nil && s.Station.Longitude != nil {
			lines = append(lines, coordinateLine(*s.Station.Latitude, *s.Station.Longitude))
		}
		if s.Station.Elevation != nil {
			lines = append(lines, fmt.Sprintf("- **Elevation**: %gm", *s.Station.Elevation))
		}
		if s.Station.State != nil {
			lines = append(lines, fmt.Sprintf("- **State**: %s", *s.Station.State))
		}

		if len(s.Measurements) > 0 {
			lines = append(lines, "- **Current Measurements**:")
			for _, m := range s.Measurements {
				lines = append(lines, fmt.Sprintf("  - %s: %s", m.Parameter, measurementValue(m)))
			}
		}

		if s.LastUpdated != nil {
			lines = append(lines, fmt.Sprintf("- **Last Updated**: %s", formatTime(*s.LastUpdated)))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Warnings renders a warning report. Field line order per warning:
// ID, level, type, start, end, regions, description.
func Warnings(warnings []domain.WarningInfo) string {
	if len(warnings) == 0 {
		return NoWarnings
	}

	lines := []string{"# Current Weather Warnings", ""}
	for _, w := range warnings {
		lines = append(lines,
			fmt.Sprintf("## %s", w.Headline),
			fmt.Sprintf("- **ID**: %s", w.WarningID),
			fmt.Sprintf("- **Level**: %d", w.Level),
			fmt.Sprintf("- **Type**: %s", w.Type),
			fmt.Sprintf("- **Start**: %s", formatTime(w.StartTime)),
		)
		if w.EndTime != nil {
			lines = append(lines, fmt.Sprintf("- **End**: %s", formatTime(*w.EndTime)))
		}
		if len(w.Regions) > 0 {
			lines = append(lines, fmt.Sprintf("- **Regions**: %s", strings.Join(w.Regions, ", ")))
		}
		lines = append(lines, fmt.Sprintf("- **Description**: %s", w.Description), "")
	}
	return strings.Join(lines, "\n")
}

// CrowdReports renders a crowd report listing. Field line order per report:
// location, condition, temperature, time, comment.
func CrowdReports(reports []domain.CrowdReport) string {
	if len(reports) == 0 {
		return NoReports
	}

	lines := []string{"# User-Submitted Weather Reports", ""}
	for _, r := range reports {
		lines = append(lines,
			fmt.Sprintf("## Report %s", r.ReportID),
			coordinateLine(r.Latitude, r.Longitude),
			fmt.Sprintf("- **Condition**: %s", r.WeatherCondition),
		)
		if r.Temperature != nil {
			lines = append(lines, fmt.Sprintf("- **Temperature**: %g°C", *r.Temperature))
		}
		lines = append(lines, fmt.Sprintf("- **Time**: %s", formatTime(r.Timestamp)))
		if r.UserComment != nil {
			lines = append(lines, fmt.Sprintf("- **Comment**: %s", *r.UserComment))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// measurementValue renders a measurement's value: "N/A" when absent, the
// bare number without a unit, "value unit" otherwise.
func measurementValue(m domain.WeatherMeasurement) string {
	switch {
	case m.Value == nil:
		return "N/A"
	case m.Unit == nil:
		return fmt.Sprintf("%g", *m.Value)
	default:
		return fmt.Sprintf("%g %s", *m.Value, *m.Unit)
	}
}

// coordinateLine renders coordinates with exactly 4 decimal digits.
func coordinateLine(lat, lon float64) string {
	return fmt.Sprintf("- **Location**: %.4f°N, %.4f°E", lat, lon)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
