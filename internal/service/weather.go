// Package service composes the weather pipeline: fetch raw JSON from the
// upstream collaborator, normalize its shape, validate items independently,
// and apply caller-supplied filters. Typed records go back to the caller;
// rendering is the report package's job.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/dwd-mcp/internal/domain"
	"github.com/couchcryptid/dwd-mcp/internal/observability"
)

// Fetcher is the transport collaborator: one GET, raw JSON back, or a
// batch-level error. The dwd.Client implements it; tests substitute stubs.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

// DWD API endpoint paths.
const (
	EndpointStations = "/stationOverviewExtended"
	EndpointWarnings = "/warnings_nowcast.json"
	EndpointReports  = "/crowd_meldungen_overview_v2.json"
)

// Record kind labels for logs and metrics.
const (
	kindStation     = "station"
	kindWarning     = "warning"
	kindCrowdReport = "crowd_report"
)

// Weather serves the three DWD feeds. It holds no request-scoped state;
// concurrent invocations are independent.
type Weather struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics

	// lastFetch is the unix-nano time of the last successful upstream
	// fetch, used by the readiness probe. Zero until the first success.
	lastFetch atomic.Int64
}

// New creates a Weather service around the given transport.
func New(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *Weather {
	return &Weather{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// GetWeatherStations fetches station data, optionally restricted to specific
// station IDs. The region parameter is accepted for interface symmetry but
// the station feed has no field to match it against; it is a documented
// no-op.
func (w *Weather) GetWeatherStations(ctx context.Context, stationIDs []string, region string) ([]domain.StationData, error) {
	params := url.Values{}
	if len(stationIDs) > 0 {
		params.Set("stationIds", strings.Join(stationIDs, ","))
	}

	raw, err := w.fetcher.Fetch(ctx, EndpointStations, params)
	if err != nil {
		return nil, err
	}
	w.markFetched()

	if region != "" {
		w.logger.Debug("region filter has no matching field for stations; ignored", "region", region)
	}

	items := domain.Normalize(raw, domain.KeyStations, true)
	stations := make([]domain.StationData, 0, len(items))
	for _, item := range items {
		station, err := domain.DecodeStationData(item)
		if err != nil {
			w.dropItem(kindStation, err)
			continue
		}
		w.metrics.ItemsValidated.WithLabelValues(kindStation).Inc()
		stations = append(stations, station)
	}
	return stations, nil
}

// GetCurrentWarnings fetches active warnings, then filters by minimum
// severity and region membership, in that order.
func (w *Weather) GetCurrentWarnings(ctx context.Context, region string, minSeverity *int) ([]domain.WarningInfo, error) {
	raw, err := w.fetcher.Fetch(ctx, EndpointWarnings, nil)
	if err != nil {
		return nil, err
	}
	w.markFetched()

	items := domain.Normalize(raw, domain.KeyWarnings, false)
	warnings := make([]domain.WarningInfo, 0, len(items))
	for _, item := range items {
		warning, err := domain.DecodeWarning(item)
		if err != nil {
			w.dropItem(kindWarning, err)
			continue
		}
		w.metrics.ItemsValidated.WithLabelValues(kindWarning).Inc()
		warnings = append(warnings, warning)
	}
	return domain.FilterWarnings(warnings, region, minSeverity), nil
}

// GetCrowdReports fetches user-submitted reports. The region parameter is
// accepted but inert: crowd reports carry coordinates, not region names.
func (w *Weather) GetCrowdReports(ctx context.Context, region string) ([]domain.CrowdReport, error) {
	raw, err := w.fetcher.Fetch(ctx, EndpointReports, nil)
	if err != nil {
		return nil, err
	}
	w.markFetched()

	if region != "" {
		w.logger.Debug("region filter has no matching field for crowd reports; ignored", "region", region)
	}

	items := domain.Normalize(raw, domain.KeyReports, false)
	reports := make([]domain.CrowdReport, 0, len(items))
	for _, item := range items {
		report, err := domain.DecodeCrowdReport(item)
		if err != nil {
			w.dropItem(kindCrowdReport, err)
			continue
		}
		w.metrics.ItemsValidated.WithLabelValues(kindCrowdReport).Inc()
		reports = append(reports, report)
	}
	return reports, nil
}

// CheckReadiness returns nil once at least one upstream fetch has succeeded.
func (w *Weather) CheckReadiness(_ context.Context) error {
	if w.lastFetch.Load() == 0 {
		return errors.New("no successful upstream fetch yet")
	}
	return nil
}

// LastFetch returns the time of the last successful upstream fetch, or the
// zero time if none has happened.
func (w *Weather) LastFetch() time.Time {
	nanos := w.lastFetch.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos).UTC()
}

func (w *Weather) markFetched() {
	w.lastFetch.Store(domain.Now().UnixNano())
}

// dropItem records an item-level validation failure: logged and counted,
// never escalated to a batch error.
func (w *Weather) dropItem(kind string, err error) {
	w.logger.Warn("validation failed, skipping item", "kind", kind, "error", err)
	w.metrics.ItemsDropped.WithLabelValues(kind).Inc()
}
