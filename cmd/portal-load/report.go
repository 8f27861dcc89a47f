package main

import "time"

// loadReport is the portal_load_report.v1 document written by run.
type loadReport struct {
	SchemaVersion   int               `json:"schema_version"`
	RunID           string            `json:"run_id"`
	BaseURL         string            `json:"base_url"`
	Profile         string            `json:"profile"`
	VUs             int               `json:"vus"`
	DurationSeconds int               `json:"duration_seconds"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	Endpoints       []endpointReport  `json:"endpoints"`
	Thresholds      []thresholdReport `json:"thresholds"`
}

type endpointReport struct {
	Endpoint  string  `json:"endpoint"`
	Requests  int     `json:"requests"`
	Errors    int     `json:"errors"`
	ErrorRate float64 `json:"error_rate"`
	P50MS     int     `json:"p50_ms"`
	P95MS     int     `json:"p95_ms"`
	P99MS     int     `json:"p99_ms"`
}

type thresholdReport struct {
	Name  string  `json:"name"`
	Limit float64 `json:"limit"`
	Value float64 `json:"value"`
	OK    bool    `json:"ok"`
}

// errorRate is the share of failed requests across every endpoint.
func errorRate(endpoints []endpointReport) float64 {
	var requests, errs int
	for _, e := range endpoints {
		requests += e.Requests
		errs += e.Errors
	}
	if requests == 0 {
		return 0
	}
	return float64(errs) / float64(requests)
}
