package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"papertrader/internal/analysis"
	"papertrader/internal/engine"
	"papertrader/internal/market"
	"papertrader/internal/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.log.Info("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// statusFor maps the domain error taxonomy onto HTTP statuses.
// ErrCatalogueInconsistency deliberately surfaces as a 500: it marks an
// internal invariant violation, not caller misuse.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrQuoteNotFound),
		errors.Is(err, repository.ErrPositionNotFound),
		errors.Is(err, market.ErrSymbolUnknown):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrQuoteExists),
		errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, repository.ErrInsufficientQuantity):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidQuantity),
		errors.Is(err, repository.ErrNegativeAmount):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrUnavailable),
		errors.Is(err, analysis.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
