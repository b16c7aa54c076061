package server

import (
	"net/http"

	"github.com/shopspring/decimal"
)

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.svc.Balance(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, balance)
}

func (s *Server) addBalance(w http.ResponseWriter, r *http.Request) {
	amount, ok := s.amountParam(w, r)
	if !ok {
		return
	}
	balance, err := s.svc.AddBalance(r.Context(), amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, balance)
}

func (s *Server) subtractBalance(w http.ResponseWriter, r *http.Request) {
	amount, ok := s.amountParam(w, r)
	if !ok {
		return
	}
	balance, err := s.svc.SubtractBalance(r.Context(), amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, balance)
}

func (s *Server) updateBalance(w http.ResponseWriter, r *http.Request) {
	amount, ok := s.amountParam(w, r)
	if !ok {
		return
	}
	balance, err := s.svc.SetBalance(r.Context(), amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, balance)
}

func (s *Server) amountParam(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(r.PathValue("amount"))
	if err != nil {
		s.badRequest(w, "amount must be a number")
		return decimal.Decimal{}, false
	}
	return amount, true
}
