package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/rgehrsitz/hiquote/internal/ratestore"
)

func (s *Server) store() (ratestore.Store, bool) {
	st := s.resolver.Store()
	return st, st != nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	st, ok := s.store()
	if !ok {
		respondJSON(w, http.StatusOK, []ratestore.ProductInfo{})
		return
	}

	products, err := st.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list products", err)
		return
	}
	if products == nil {
		products = []ratestore.ProductInfo{}
	}
	respondJSON(w, http.StatusOK, products)
}

// getRates serves the editable form of a product's tables: derived minimum rates are
// omitted so a GET, edit, PUT round trip keeps deriving them from the base rates.
func (s *Server) getRates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == rates.DefaultProductID {
		respondJSON(w, http.StatusOK, s.resolver.Defaults().Clone())
		return
	}

	st, ok := s.store()
	if !ok {
		respondError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	cfg, err := st.Get(r.Context(), id)
	if errors.Is(err, ratestore.ErrNotFound) {
		respondError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load rates", err)
		return
	}
	respondJSON(w, http.StatusOK, cfg.Clone())
}

// putRates stores the rate tables of a product. The product id in the body, when
// present, must match the path.
func (s *Server) putRates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == rates.DefaultProductID {
		respondError(w, http.StatusBadRequest, "the built-in default rates cannot be replaced", nil)
		return
	}
	if err := ratestore.ValidateProductID(id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	st, ok := s.store()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "no rate store configured", nil)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	var cfg rates.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if cfg.ProductID != "" && cfg.ProductID != id {
		respondError(w, http.StatusBadRequest, "product id mismatch",
			fmt.Errorf("path names %q, body names %q", id, cfg.ProductID))
		return
	}
	cfg.ProductID = id

	if err := cfg.Clone().Init(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid rate configuration", err)
		return
	}
	if err := st.Put(r.Context(), &cfg); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store rates", err)
		return
	}
	s.resolver.Invalidate(id)
	s.logger.Infof("stored rate configuration for product %s", id)

	stored, err := st.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load stored rates", err)
		return
	}
	respondJSON(w, http.StatusOK, stored.Clone())
}

func (s *Server) deleteRates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	st, ok := s.store()
	if !ok {
		respondError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	err := st.Delete(r.Context(), id)
	if errors.Is(err, ratestore.ErrNotFound) {
		respondError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete rates", err)
		return
	}
	s.resolver.Invalidate(id)
	s.logger.Infof("deleted rate configuration for product %s", id)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) defaultRates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.resolver.Defaults().Clone())
}
