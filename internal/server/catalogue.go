package server

import "net/http"

func (s *Server) getCatalogue(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.svc.Catalogue(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quotes)
}

func (s *Server) searchCatalogue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.badRequest(w, "missing query parameter q")
		return
	}
	quotes, err := s.svc.Search(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quotes)
}

func (s *Server) addCatalogueEntry(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	quote, err := s.svc.AddAsset(r.Context(), symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, quote)
}

func (s *Server) updateCatalogueEntry(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	quote, err := s.svc.UpdateAsset(r.Context(), symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}
