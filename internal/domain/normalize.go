package domain

import (
	"bytes"
	"encoding/json"
)

// Shape classifies the top-level layout of an upstream JSON response.
// The DWD API is not consistent: the same feed can answer with a bare
// array, an object wrapping the array under a feed-specific key, or
// (stations only) a single bare object.
type Shape int

const (
	// ShapeKeyedObject is an object carrying the item list under the
	// feed's extraction key, e.g. {"warnings": [...]}.
	ShapeKeyedObject Shape = iota
	// ShapeBareObject is an object without the extraction key,
	// treated as a single item for the station feed.
	ShapeBareObject
	// ShapeBareArray is a top-level array of items.
	ShapeBareArray
	// ShapeOther is anything else (scalar, null, malformed).
	ShapeOther
)

// Extraction keys per feed.
const (
	KeyStations = "stations"
	KeyWarnings = "warnings"
	KeyReports  = "reports"
)

// DetectShape reports which of the known response layouts raw has,
// relative to the given extraction key.
func DetectShape(raw json.RawMessage, key string) Shape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ShapeOther
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return ShapeOther
		}
		if _, ok := obj[key]; ok {
			return ShapeKeyedObject
		}
		return ShapeBareObject
	case '[':
		return ShapeBareArray
	default:
		return ShapeOther
	}
}

// Normalize extracts the per-item JSON objects from a raw upstream response.
// wrapBareObject enables the station-feed special case where a single
// unwrapped object counts as a one-item list. Unrecognized shapes degrade
// to an empty slice; this stage never fails.
func Normalize(raw json.RawMessage, key string, wrapBareObject bool) []json.RawMessage {
	switch DetectShape(raw, key) {
	case ShapeKeyedObject:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(obj[key], &items); err != nil {
			// Key present but not a list; treat as empty.
			return nil
		}
		return items
	case ShapeBareObject:
		if wrapBareObject {
			return []json.RawMessage{raw}
		}
		return nil
	case ShapeBareArray:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		return items
	default:
		return nil
	}
}
