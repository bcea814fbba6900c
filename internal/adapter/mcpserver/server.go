// Package mcpserver registers the weather tools and resources on an MCP
// server and renders service results as text. Protocol plumbing (schema
// generation, routing, stdio framing) belongs to the SDK; this package only
// maps arguments in and text out.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/couchcryptid/dwd-mcp/internal/adapter/dwd"
	"github.com/couchcryptid/dwd-mcp/internal/observability"
	"github.com/couchcryptid/dwd-mcp/internal/report"
	"github.com/couchcryptid/dwd-mcp/internal/service"
)

// Resource URIs.
const (
	ResourceStations = "weather://stations/all"
	ResourceWarnings = "weather://warnings/current"
	ResourceReports  = "weather://reports/crowd"
)

// Server wires the weather service into an MCP server over stdio.
type Server struct {
	weather *service.Weather
	logger  *slog.Logger
	metrics *observability.Metrics
	mcp     *mcp.Server
}

// StationsArgs are the inputs of the get_weather_stations tool.
type StationsArgs struct {
	StationIDs []string `json:"station_ids,omitempty" jsonschema:"List of specific station IDs to fetch data for"`
	Region     string   `json:"region,omitempty" jsonschema:"Region filter (optional)"`
}

// WarningsArgs are the inputs of the get_current_warnings tool.
type WarningsArgs struct {
	Region   string `json:"region,omitempty" jsonschema:"Region filter (optional)"`
	Severity *int   `json:"severity,omitempty" jsonschema:"Minimum warning severity level (1-4)"`
}

// ReportsArgs are the inputs of the get_crowd_reports tool.
type ReportsArgs struct {
	Region string `json:"region,omitempty" jsonschema:"Region filter (optional)"`
}

// New creates the MCP server and registers all tools and resources.
func New(weather *service.Weather, logger *slog.Logger, metrics *observability.Metrics, version string) *Server {
	s := &Server{
		weather: weather,
		logger:  logger,
		metrics: metrics,
		mcp:     mcp.NewServer(&mcp.Implementation{Name: "dwd-mcp", Version: version}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_weather_stations",
		Description: "Get weather station data from the German Weather Service (DWD)",
	}, s.handleGetWeatherStations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_current_warnings",
		Description: "Get current weather warnings from the German Weather Service",
	}, s.handleGetCurrentWarnings)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_crowd_reports",
		Description: "Get user-submitted weather reports from the German Weather Service",
	}, s.handleGetCrowdReports)

	s.mcp.AddResource(&mcp.Resource{
		URI:         ResourceStations,
		Name:        "All Weather Stations",
		Description: "Complete list of all available weather stations",
		MIMEType:    "application/json",
	}, s.handleReadResource)
	s.mcp.AddResource(&mcp.Resource{
		URI:         ResourceWarnings,
		Name:        "Current Weather Warnings",
		Description: "Active weather warnings",
		MIMEType:    "application/json",
	}, s.handleReadResource)
	s.mcp.AddResource(&mcp.Resource{
		URI:         ResourceReports,
		Name:        "Crowd Weather Reports",
		Description: "User-submitted weather observations",
		MIMEType:    "application/json",
	}, s.handleReadResource)

	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleGetWeatherStations(ctx context.Context, _ *mcp.CallToolRequest, args StationsArgs) (*mcp.CallToolResult, any, error) {
	s.metrics.ToolCalls.WithLabelValues("get_weather_stations").Inc()

	stations, err := s.weather.GetWeatherStations(ctx, args.StationIDs, args.Region)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	return textResult(report.Stations(stations)), nil, nil
}

func (s *Server) handleGetCurrentWarnings(ctx context.Context, _ *mcp.CallToolRequest, args WarningsArgs) (*mcp.CallToolResult, any, error) {
	s.metrics.ToolCalls.WithLabelValues("get_current_warnings").Inc()

	warnings, err := s.weather.GetCurrentWarnings(ctx, args.Region, args.Severity)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	return textResult(report.Warnings(warnings)), nil, nil
}

func (s *Server) handleGetCrowdReports(ctx context.Context, _ *mcp.CallToolRequest, args ReportsArgs) (*mcp.CallToolResult, any, error) {
	s.metrics.ToolCalls.WithLabelValues("get_crowd_reports").Inc()

	reports, err := s.weather.GetCrowdReports(ctx, args.Region)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	return textResult(report.CrowdReports(reports)), nil, nil
}

// handleReadResource serves the full unfiltered record set of a feed as
// newline-joined JSON, one indented document per record.
func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	var text string
	switch uri {
	case ResourceStations:
		stations, err := s.weather.GetWeatherStations(ctx, nil, "")
		if err != nil {
			return nil, err
		}
		text = joinJSON(stations)
	case ResourceWarnings:
		warnings, err := s.weather.GetCurrentWarnings(ctx, "", nil)
		if err != nil {
			return nil, err
		}
		text = joinJSON(warnings)
	case ResourceReports:
		reports, err := s.weather.GetCrowdReports(ctx, "")
		if err != nil {
			return nil, err
		}
		text = joinJSON(reports)
	default:
		return nil, fmt.Errorf("unknown resource URI: %s", uri)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// errorResult renders a failure as a tool text response. A transport-tier
// failure keeps its endpoint context; anything else gets the generic prefix.
func (s *Server) errorResult(err error) *mcp.CallToolResult {
	var apiErr *dwd.APIError
	var text string
	if errors.As(err, &apiErr) {
		text = fmt.Sprintf("Error fetching data: %v", err)
	} else {
		text = fmt.Sprintf("Unexpected error: %v", err)
	}
	s.logger.Error("tool call failed", "error", err)

	result := textResult(text)
	result.IsError = true
	return result
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// joinJSON marshals each record to two-space-indented JSON and joins the
// documents with newlines.
func joinJSON[T any](records []T) string {
	docs := make([]string, 0, len(records))
	for _, r := range records {
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			continue
		}
		docs = append(docs, string(b))
	}
	return strings.Join(docs, "\n")
}
