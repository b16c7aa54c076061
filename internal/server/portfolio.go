package server

import (
	"net/http"
	"strconv"
)

func (s *Server) getPortfolio(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.svc.Portfolio(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, holdings)
}

func (s *Server) buyAsset(w http.ResponseWriter, r *http.Request) {
	symbol, quantity, ok := s.tradeParams(w, r)
	if !ok {
		return
	}
	if err := s.svc.Buy(r.Context(), symbol, quantity); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "bought", "symbol": symbol})
}

func (s *Server) sellAsset(w http.ResponseWriter, r *http.Request) {
	symbol, quantity, ok := s.tradeParams(w, r)
	if !ok {
		return
	}
	if err := s.svc.Sell(r.Context(), symbol, quantity); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "sold", "symbol": symbol})
}

func (s *Server) sellAllAsset(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		s.badRequest(w, "missing symbol")
		return
	}
	if err := s.svc.SellAll(r.Context(), symbol); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "sold all", "symbol": symbol})
}

func (s *Server) getTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.svc.Trades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) tradeParams(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		s.badRequest(w, "missing symbol")
		return "", 0, false
	}
	quantity, err := strconv.ParseInt(r.PathValue("quantity"), 10, 64)
	if err != nil {
		s.badRequest(w, "quantity must be an integer")
		return "", 0, false
	}
	return symbol, quantity, true
}
