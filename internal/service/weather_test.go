package service_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/dwd-mcp/internal/adapter/dwd"
	"github.com/couchcryptid/dwd-mcp/internal/domain"
	"github.com/couchcryptid/dwd-mcp/internal/observability"
	"github.com/couchcryptid/dwd-mcp/internal/service"
)

// --- mocks ---

type mockFetcher struct {
	raw      json.RawMessage
	err      error
	endpoint string
	params   url.Values
	calls    int
}

func (m *mockFetcher) Fetch(_ context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	m.calls++
	m.endpoint = endpoint
	m.params = params
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

func newTestService(fetcher service.Fetcher) *service.Weather {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.New(fetcher, logger, observability.NewMetricsForTesting())
}

const sampleStationJSON = `{"stationId":"10382","stationName":"Berlin-Tempelhof","lat":52.4675,"lon":13.4021,"elevation":48.0,"state":"Berlin"}`

func TestGetWeatherStations(t *testing.T) {
	t.Run("bare list of station infos", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(`[` + sampleStationJSON + `]`)}
		svc := newTestService(fetcher)

		stations, err := svc.GetWeatherStations(context.Background(), []string{"10382"}, "")

		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "10382", stations[0].Station.StationID)
		assert.Equal(t, "Berlin-Tempelhof", *stations[0].Station.StationName)
		assert.Empty(t, stations[0].Measurements)

		assert.Equal(t, service.EndpointStations, fetcher.endpoint)
		assert.Equal(t, "10382", fetcher.params.Get("stationIds"))
	})

	t.Run("multiple IDs joined comma-separated", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(`[]`)}
		svc := newTestService(fetcher)

		_, err := svc.GetWeatherStations(context.Background(), []string{"10382", "10384"}, "")

		require.NoError(t, err)
		assert.Equal(t, "10382,10384", fetcher.params.Get("stationIds"))
	})

	t.Run("no IDs sends no parameters", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(`[]`)}
		svc := newTestService(fetcher)

		_, err := svc.GetWeatherStations(context.Background(), nil, "")

		require.NoError(t, err)
		assert.Empty(t, fetcher.params)
	})

	t.Run("single bare station object wrapped", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(sampleStationJSON)}
		svc := newTestService(fetcher)

		stations, err := svc.GetWeatherStations(context.Background(), nil, "")

		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "10382", stations[0].Station.StationID)
	})

	t.Run("keyed response with full station data shape", func(t *testing.T) {
		raw := json.RawMessage(`{"stations":[{
			"station": ` + sampleStationJSON + `,
			"measurements": [{"parameter":"temperature","value":22.5,"unit":"°C"}],
			"lastUpdated": "2024-01-15T12:00:00Z"
		}]}`)
		fetcher := &mockFetcher{raw: raw}
		svc := newTestService(fetcher)

		stations, err := svc.GetWeatherStations(context.Background(), nil, "")

		require.NoError(t, err)
		require.Len(t, stations, 1)
		require.Len(t, stations[0].Measurements, 1)
		assert.Equal(t, "temperature", stations[0].Measurements[0].Parameter)
		require.NotNil(t, stations[0].LastUpdated)
	})

	t.Run("invalid item skipped, siblings survive", func(t *testing.T) {
		raw := json.RawMessage(`[{"stationName":"no id"}, ` + sampleStationJSON + `]`)
		fetcher := &mockFetcher{raw: raw}
		svc := newTestService(fetcher)

		stations, err := svc.GetWeatherStations(context.Background(), nil, "")

		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "10382", stations[0].Station.StationID)
	})

	t.Run("region filter accepted but inert", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(`[` + sampleStationJSON + `]`)}
		svc := newTestService(fetcher)

		stations, err := svc.GetWeatherStations(context.Background(), nil, "Bayern")

		require.NoError(t, err)
		assert.Len(t, stations, 1)
	})

	t.Run("transport error surfaces as batch failure", func(t *testing.T) {
		apiErr := &dwd.APIError{Endpoint: service.EndpointStations}
		fetcher := &mockFetcher{err: apiErr}
		svc := newTestService(fetcher)

		_, err := svc.GetWeatherStations(context.Background(), nil, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("all items invalid degrades to zero records", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(`[{"a":1},{"b":2}]`)}
		svc := newTestService(fetcher)

		stations, err := svc.GetWeatherStations(context.Background(), nil, "")

		require.NoError(t, err)
		assert.Empty(t, stations)
	})
}

func TestGetCurrentWarnings(t *testing.T) {
	warningsJSON := `{"warnings":[
		{"warningId":"W1","level":1,"type":"RAIN","headline":"h1","description":"d1","startTime":"2024-01-15T14:00:00Z","regions":["Bayern"]},
		{"warningId":"W2","level":2,"type":"THUNDER","headline":"h2","description":"d2","startTime":"2024-01-15T14:00:00Z","regions":["Berlin","Brandenburg"]},
		{"warningId":"W3","level":3,"type":"STORM","headline":"h3","description":"d3","startTime":"2024-01-15T14:00:00Z","regions":["Berlin"]}
	]}`

	t.Run("unfiltered returns all in upstream order", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(warningsJSON)}
		svc := newTestService(fetcher)

		warnings, err := svc.GetCurrentWarnings(context.Background(), "", nil)

		require.NoError(t, err)
		require.Len(t, warnings, 3)
		assert.Equal(t, "W1", warnings[0].WarningID)
		assert.Equal(t, "W3", warnings[2].WarningID)
		assert.Equal(t, service.EndpointWarnings, fetcher.endpoint)
	})

	t.Run("minimum severity drops lower levels", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(warningsJSON)}
		svc := newTestService(fetcher)
		minSeverity := 2

		warnings, err := svc.GetCurrentWarnings(context.Background(), "", &minSeverity)

		require.NoError(t, err)
		require.Len(t, warnings, 2)
		assert.Equal(t, "W2", warnings[0].WarningID)
		assert.Equal(t, "W3", warnings[1].WarningID)
	})

	t.Run("region filter is exact membership", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(warningsJSON)}
		svc := newTestService(fetcher)

		warnings, err := svc.GetCurrentWarnings(context.Background(), "München", nil)
		require.NoError(t, err)
		assert.Empty(t, warnings)

		warnings, err = svc.GetCurrentWarnings(context.Background(), "Berlin", nil)
		require.NoError(t, err)
		assert.Len(t, warnings, 2)
	})

	t.Run("invalid warning skipped", func(t *testing.T) {
		raw := json.RawMessage(`[{"warningId":"W1"},{"warningId":"W2","level":2,"type":"T","headline":"h","description":"d","startTime":"2024-01-15T14:00:00Z"}]`)
		fetcher := &mockFetcher{raw: raw}
		svc := newTestService(fetcher)

		warnings, err := svc.GetCurrentWarnings(context.Background(), "", nil)

		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, "W2", warnings[0].WarningID)
	})
}

func TestGetCrowdReports(t *testing.T) {
	reportsJSON := `{"reports":[
		{"reportId":"R1","lat":52.52,"lon":13.405,"weatherCondition":"rain","timestamp":"2024-01-15T09:30:00Z"},
		{"reportId":"R2","lat":48.14,"lon":11.58,"weatherCondition":"snow","temperature":-1.5,"timestamp":"2024-01-15T09:45:00Z"}
	]}`

	t.Run("returns reports in upstream order", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(reportsJSON)}
		svc := newTestService(fetcher)

		reports, err := svc.GetCrowdReports(context.Background(), "")

		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "R1", reports[0].ReportID)
		assert.Equal(t, "R2", reports[1].ReportID)
		assert.Equal(t, service.EndpointReports, fetcher.endpoint)
	})

	t.Run("region filter accepted but inert", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(reportsJSON)}
		svc := newTestService(fetcher)

		reports, err := svc.GetCrowdReports(context.Background(), "Berlin")

		require.NoError(t, err)
		assert.Len(t, reports, 2)
	})

	t.Run("bare object without key degrades to empty", func(t *testing.T) {
		fetcher := &mockFetcher{raw: json.RawMessage(`{"reportId":"R1"}`)}
		svc := newTestService(fetcher)

		reports, err := svc.GetCrowdReports(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, reports)
	})
}

func TestReadiness(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	defer domain.SetClock(nil)

	fetcher := &mockFetcher{raw: json.RawMessage(`[]`)}
	svc := newTestService(fetcher)

	require.Error(t, svc.CheckReadiness(context.Background()))
	assert.True(t, svc.LastFetch().IsZero())

	_, err := svc.GetCrowdReports(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, svc.CheckReadiness(context.Background()))
	assert.Equal(t, fixed, svc.LastFetch())
}

func TestEndToEndStationScenario(t *testing.T) {
	raw := json.RawMessage(`[{"stationId":"10382","stationName":"Berlin-Tempelhof","lat":52.4675,"lon":13.4021,"elevation":48.0,"state":"Berlin"}]`)
	fetcher := &mockFetcher{raw: raw}
	svc := newTestService(fetcher)

	stations, err := svc.GetWeatherStations(context.Background(), nil, "")

	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "10382", stations[0].Station.StationID)
}
