package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"reservation-analysis/internal/errors"
)

// handleAnalysis handles GET /api/reservation-analysis.
// The subscription comes from ?subscriptionId= or the server default.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	subscriptionID := strings.TrimSpace(r.URL.Query().Get("subscriptionId"))
	if subscriptionID == "" {
		subscriptionID = s.opts.DefaultSubscriptionID
	}

	analysis, err := s.analyzer.ComputeAnalysis(r.Context(), subscriptionID)
	if err != nil {
		s.logger.Error("analysis failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, AnalysisResponse{
		RequestID: middleware.GetReqID(r.Context()),
		Analysis:  analysis,
	}, http.StatusOK)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		Message: "Error processing request.",
		Details: err.Error(),
		Type:    errors.TypeInternal,
	}
	if e, ok := errors.As(err); ok {
		resp.Details = e.Detail()
		resp.Type = e.Type
		resp.Source = e.Source
	}
	s.writeJSON(w, resp, StatusFor(resp.Type))
}

// StatusFor maps an error type to an HTTP status. Everything the caller cannot
// fix is a 500 except upstream feed failures.
func StatusFor(t errors.Type) int {
	switch t {
	case errors.TypeSourceUnavailable:
		return http.StatusBadGateway
	case errors.TypeInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
