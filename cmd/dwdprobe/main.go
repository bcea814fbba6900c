// Command dwdprobe runs a feed through the full normalize-validate-format
// pipeline and prints the text report. It reads either a local JSON fixture
// or the live DWD API, which makes it useful for checking fixtures and for
// eyeballing formatter output without an MCP client.
//
// Usage:
//
//	go run ./cmd/dwdprobe -kind stations -file testdata/stations.json
//	go run ./cmd/dwdprobe -kind warnings -live -region Berlin -severity 2
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/dwd-mcp/internal/adapter/dwd"
	"github.com/couchcryptid/dwd-mcp/internal/observability"
	"github.com/couchcryptid/dwd-mcp/internal/report"
	"github.com/couchcryptid/dwd-mcp/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fixtureFetcher serves a canned response instead of hitting the network.
type fixtureFetcher struct {
	raw json.RawMessage
}

func (f fixtureFetcher) Fetch(_ context.Context, _ string, _ url.Values) (json.RawMessage, error) {
	return f.raw, nil
}

func run() error {
	kind := flag.String("kind", "", "feed to probe: stations, warnings, or reports")
	file := flag.String("file", "", "JSON fixture to run through the pipeline")
	live := flag.Bool("live", false, "fetch from the DWD API instead of a fixture")
	baseURL := flag.String("base-url", dwd.DefaultBaseURL, "DWD API base URL (with -live)")
	ids := flag.String("ids", "", "comma-separated station IDs (stations only)")
	region := flag.String("region", "", "region filter")
	severity := flag.Int("severity", 0, "minimum warning severity, 1-4 (warnings only)")
	flag.Parse()

	if *kind == "" || (*live && *file != "") || (!*live && *file == "") {
		flag.Usage()
		return fmt.Errorf("need -kind and exactly one of -file or -live")
	}

	logger := observability.NewLogger("warn", "text")
	metrics := observability.NewMetricsForTesting()

	var fetcher service.Fetcher
	if *live {
		fetcher = dwd.NewClient(*baseURL, 30*time.Second, metrics, logger)
	} else {
		raw, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		fetcher = fixtureFetcher{raw: raw}
	}

	weather := service.New(fetcher, logger, metrics)
	ctx := context.Background()

	var text string
	switch *kind {
	case "stations":
		var stationIDs []string
		if *ids != "" {
			stationIDs = strings.Split(*ids, ",")
		}
		stations, err := weather.GetWeatherStations(ctx, stationIDs, *region)
		if err != nil {
			return err
		}
		text = report.Stations(stations)
	case "warnings":
		var minSeverity *int
		if *severity > 0 {
			minSeverity = severity
		}
		warnings, err := weather.GetCurrentWarnings(ctx, *region, minSeverity)
		if err != nil {
			return err
		}
		text = report.Warnings(warnings)
	case "reports":
		reports, err := weather.GetCrowdReports(ctx, *region)
		if err != nil {
			return err
		}
		text = report.CrowdReports(reports)
	default:
		return fmt.Errorf("unknown kind %q", *kind)
	}

	fmt.Println(text)
	logger.Debug("probe complete", "last_fetch", weather.LastFetch())
	return nil
}
