package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// The upstream API uses camelCase keys (stationId, startTime) while our own
// fixtures and resource output use the canonical snake_case names. Decoding
// accepts either spelling; the first present, non-null key wins.

// objectOf decodes raw into a key/value map, failing on non-objects.
func objectOf(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	return obj, nil
}

func lookup(obj map[string]json.RawMessage, names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		if v, ok := obj[name]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func requiredString(obj map[string]json.RawMessage, names ...string) (string, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return "", fmt.Errorf("missing required field %q", names[0])
	}
	return asString(v, names[0])
}

func optionalString(obj map[string]json.RawMessage, names ...string) (*string, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return nil, nil
	}
	s, err := asString(v, names[0])
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func requiredFloat(obj map[string]json.RawMessage, names ...string) (float64, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return 0, fmt.Errorf("missing required field %q", names[0])
	}
	return asFloat(v, names[0])
}

func optionalFloat(obj map[string]json.RawMessage, names ...string) (*float64, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return nil, nil
	}
	f, err := asFloat(v, names[0])
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func requiredInt(obj map[string]json.RawMessage, names ...string) (int, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return 0, fmt.Errorf("missing required field %q", names[0])
	}
	return asInt(v, names[0])
}

func requiredTime(obj map[string]json.RawMessage, names ...string) (time.Time, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return time.Time{}, fmt.Errorf("missing required field %q", names[0])
	}
	return asTime(v, names[0])
}

func optionalTime(obj map[string]json.RawMessage, names ...string) (*time.Time, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return nil, nil
	}
	t, err := asTime(v, names[0])
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func stringList(obj map[string]json.RawMessage, names ...string) ([]string, error) {
	v, ok := lookup(obj, names...)
	if !ok {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(v, &out); err != nil {
		return nil, fmt.Errorf("field %q: not a string list: %w", names[0], err)
	}
	return out, nil
}

func asString(raw json.RawMessage, name string) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: not a string: %w", name, err)
	}
	return s, nil
}

// asFloat accepts a JSON number or a numeric string ("48.0").
func asFloat(raw json.RawMessage, name string) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("field %q: not a number", name)
}

// asInt accepts an integral JSON number or a numeric string ("2").
func asInt(raw json.RawMessage, name string) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("field %q: not an integer", name)
}

// timeLayouts are tried in order. Upstream emits RFC 3339; fixtures
// occasionally omit the zone designator.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func asTime(raw json.RawMessage, name string) (time.Time, error) {
	s, err := asString(raw, name)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("field %q: not a timestamp: %q", name, s)
}

// DecodeStationInfo validates a bare station object.
func DecodeStationInfo(raw json.RawMessage) (StationInfo, error) {
	obj, err := objectOf(raw)
	if err != nil {
		return StationInfo{}, err
	}

	info := StationInfo{}
	if info.StationID, err = requiredString(obj, "stationId", "station_id"); err != nil {
		return StationInfo{}, err
	}
	if info.StationName, err = optionalString(obj, "stationName", "station_name"); err != nil {
		return StationInfo{}, err
	}
	if info.Latitude, err = optionalFloat(obj, "lat", "latitude"); err != nil {
		return StationInfo{}, err
	}
	if info.Longitude, err = optionalFloat(obj, "lon", "longitude"); err != nil {
		return StationInfo{}, err
	}
	if info.Elevation, err = optionalFloat(obj, "elevation"); err != nil {
		return StationInfo{}, err
	}
	if info.State, err = optionalString(obj, "state"); err != nil {
		return StationInfo{}, err
	}
	return info, nil
}

// DecodeMeasurement validates a single measurement object.
func DecodeMeasurement(raw json.RawMessage) (WeatherMeasurement, error) {
	obj, err := objectOf(raw)
	if err != nil {
		return WeatherMeasurement{}, err
	}

	m := WeatherMeasurement{}
	if m.Parameter, err = requiredString(obj, "parameter"); err != nil {
		return WeatherMeasurement{}, err
	}
	if m.Value, err = optionalFloat(obj, "value"); err != nil {
		return WeatherMeasurement{}, err
	}
	if m.Unit, err = optionalString(obj, "unit"); err != nil {
		return WeatherMeasurement{}, err
	}
	if m.Timestamp, err = optionalTime(obj, "timestamp"); err != nil {
		return WeatherMeasurement{}, err
	}
	if m.Quality, err = optionalString(obj, "quality"); err != nil {
		return WeatherMeasurement{}, err
	}
	return m, nil
}

// DecodeStationData validates one item from the station feed. Items that
// already have the full StationData shape (a nested "station" object) are
// decoded as such; anything else is decoded as a bare StationInfo and
// wrapped with no measurements and no last-updated timestamp.
func DecodeStationData(raw json.RawMessage) (StationData, error) {
	obj, err := objectOf(raw)
	if err != nil {
		return StationData{}, err
	}

	nested, ok := lookup(obj, "station")
	if !ok {
		info, err := DecodeStationInfo(raw)
		if err != nil {
			return StationData{}, err
		}
		return StationData{Station: info, Measurements: []WeatherMeasurement{}}, nil
	}

	data := StationData{Measurements: []WeatherMeasurement{}}
	if data.Station, err = DecodeStationInfo(nested); err != nil {
		return StationData{}, fmt.Errorf("field %q: %w", "station", err)
	}
	if data.LastUpdated, err = optionalTime(obj, "lastUpdated", "last_updated"); err != nil {
		return StationData{}, err
	}

	if rawMeasurements, ok := lookup(obj, "measurements"); ok {
		var items []json.RawMessage
		if err := json.Unmarshal(rawMeasurements, &items); err != nil {
			return StationData{}, fmt.Errorf("field %q: not a list: %w", "measurements", err)
		}
		for i, item := range items {
			m, err := DecodeMeasurement(item)
			if err != nil {
				return StationData{}, fmt.Errorf("measurements[%d]: %w", i, err)
			}
			data.Measurements = append(data.Measurements, m)
		}
	}
	return data, nil
}

// DecodeWarning validates one item from the warnings feed.
func DecodeWarning(raw json.RawMessage) (WarningInfo, error) {
	obj, err := objectOf(raw)
	if err != nil {
		return WarningInfo{}, err
	}

	w := WarningInfo{}
	if w.WarningID, err = requiredString(obj, "warningId", "warning_id"); err != nil {
		return WarningInfo{}, err
	}
	if w.Level, err = requiredInt(obj, "level"); err != nil {
		return WarningInfo{}, err
	}
	if w.Type, err = requiredString(obj, "type"); err != nil {
		return WarningInfo{}, err
	}
	if w.Headline, err = requiredString(obj, "headline"); err != nil {
		return WarningInfo{}, err
	}
	if w.Description, err = requiredString(obj, "description"); err != nil {
		return WarningInfo{}, err
	}
	if w.StartTime, err = requiredTime(obj, "startTime", "start_time"); err != nil {
		return WarningInfo{}, err
	}
	if w.EndTime, err = optionalTime(obj, "endTime", "end_time"); err != nil {
		return WarningInfo{}, err
	}
	if w.Regions, err = stringList(obj, "regions"); err != nil {
		return WarningInfo{}, err
	}
	return w, nil
}

// DecodeCrowdReport validates one item from the crowd report feed.
func DecodeCrowdReport(raw json.RawMessage) (CrowdReport, error) {
	obj, err := objectOf(raw)
	if err != nil {
		return CrowdReport{}, err
	}

	r := CrowdReport{}
	if r.ReportID, err = requiredString(obj, "reportId", "report_id"); err != nil {
		return CrowdReport{}, err
	}
	if r.Latitude, err = requiredFloat(obj, "lat", "latitude"); err != nil {
		return CrowdReport{}, err
	}
	if r.Longitude, err = requiredFloat(obj, "lon", "longitude"); err != nil {
		return CrowdReport{}, err
	}
	if r.WeatherCondition, err = requiredString(obj, "weatherCondition", "weather_condition"); err != nil {
		return CrowdReport{}, err
	}
	if r.Temperature, err = optionalFloat(obj, "temperature"); err != nil {
		return CrowdReport{}, err
	}
	if r.Timestamp, err = requiredTime(obj, "timestamp"); err != nil {
		return CrowdReport{}, err
	}
	if r.UserComment, err = optionalString(obj, "userComment", "user_comment"); err != nil {
		return CrowdReport{}, err
	}
	return r, nil
}

// FilterWarnings drops warnings below the minimum severity, then warnings
// whose region list does not contain region (exact match). A nil minSeverity
// or empty region disables the respective predicate. Relative order of the
// survivors is preserved.
func FilterWarnings(warnings []WarningInfo, region string, minSeverity *int) []WarningInfo {
	out := make([]WarningInfo, 0, len(warnings))
	for _, w := range warnings {
		if minSeverity != nil && w.Level < *minSeverity {
			continue
		}
		if region != "" && !containsRegion(w.Regions, region) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func containsRegion(regions []string, region string) bool {
	for _, r := range regions {
		if r == region {
			return true
		}
	}
	return false
}
