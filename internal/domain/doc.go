// Package domain models the three public feeds of the Deutscher
// Wetterdienst (DWD) app API and the decision logic for turning their
// loosely-structured JSON into typed records.
//
// # Data Source
//
// The feeds are served from https://dwd.api.bund.dev:
//
//	/stationOverviewExtended          weather station observations
//	/warnings_nowcast.json            active weather warnings
//	/crowd_meldungen_overview_v2.json user-submitted reports
//
// # Response Shapes
//
// The API does not commit to a stable top-level shape. The same feed can
// answer with a bare array of items, with an object wrapping the array under
// a feed-specific key ("stations", "warnings", "reports"), or, for the
// station feed only, with one unwrapped station object. [Normalize] maps
// all of these to a flat item list; unrecognized shapes degrade to zero
// items rather than an error.
//
// # Field Aliases
//
// Upstream keys are camelCase (stationId, startTime, weatherCondition);
// records marshal back out with canonical snake_case names. Decoding accepts
// both spellings so that fixtures written either way round-trip.
//
// # Validation
//
// Items are validated independently. A missing or uncoercible required field
// fails only that item; the batch never aborts. Numeric fields accept JSON
// numbers as well as numeric strings ("48.0"), timestamps accept RFC 3339
// with or without a zone designator.
//
// # Warning Levels
//
// Warning levels are 1 (Wetterwarnung) through 4 (extreme Unwetterwarnung)
// by DWD convention. The range is deliberately not enforced at parse time;
// out-of-range values pass through unchanged.
package domain
