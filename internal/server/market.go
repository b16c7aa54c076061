package server

import "net/http"

func (s *Server) getMarketQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.svc.ProviderQuote(r.Context(), r.PathValue("ticker"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) getMarketHistory(w http.ResponseWriter, r *http.Request) {
	bars, err := s.svc.ProviderHistory(r.Context(), r.PathValue("ticker"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bars)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	bars, err := s.svc.History(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bars)
}

func (s *Server) getHistoryBySymbol(w http.ResponseWriter, r *http.Request) {
	bars, err := s.svc.HistoryBySymbol(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bars)
}

func (s *Server) refreshHistory(w http.ResponseWriter, r *http.Request) {
	bars, err := s.svc.RefreshHistory(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bars)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.Analyze(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.log.Error("write analysis payload", "error", err)
	}
}
