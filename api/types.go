// Package api - Wire types for the analysis endpoint
package api

import (
	"reservation-analysis/core/engine"
	"reservation-analysis/internal/errors"
)

// AnalysisResponse is the body of a successful GET /api/reservation-analysis
type AnalysisResponse struct {
	RequestID string `json:"requestId,omitempty"`

	*engine.Analysis
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string        `json:"message"`
	Details string        `json:"details"`
	Type    errors.Type   `json:"type"`
	Source  errors.Source `json:"source,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
