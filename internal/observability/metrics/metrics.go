package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	DedupeRunsTotal        metric.Int64Counter
	DedupeRemovalsTotal    metric.Int64Counter
	ImageMatchesTotal      metric.Int64Counter
	DescriptionFillsTotal  metric.Int64Counter
	DBQueryDurationSeconds metric.Float64Histogram
	DBQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("compass-lk")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.DedupeRunsTotal, err = meter.Int64Counter(
			"dedupe_runs_total",
			metric.WithDescription("Total number of duplicate resolution runs"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dedupe_runs_total: %v", err)
		}

		m.DedupeRemovalsTotal, err = meter.Int64Counter(
			"dedupe_removals_total",
			metric.WithDescription("Total number of duplicate rows removed"),
			metric.WithUnit("{row}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dedupe_removals_total: %v", err)
		}

		m.ImageMatchesTotal, err = meter.Int64Counter(
			"image_matches_total",
			metric.WithDescription("Total number of local image assignments proposed"),
			metric.WithUnit("{match}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_matches_total: %v", err)
		}

		m.DescriptionFillsTotal, err = meter.Int64Counter(
			"description_fills_total",
			metric.WithDescription("Total number of fallback descriptions proposed"),
			metric.WithUnit("{fill}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create description_fills_total: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
