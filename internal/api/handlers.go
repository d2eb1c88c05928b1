package api

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/pharmadocs/internal/diag"
	"github.com/dgallion1/pharmadocs/internal/document"
	"github.com/dgallion1/pharmadocs/internal/prices"
	"github.com/dgallion1/pharmadocs/internal/report"
	"github.com/dgallion1/pharmadocs/internal/stats"
)

// handleDocuments loads every configured product directory, or a single
// product_type/company_type pair when both query parameters are given.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("product_type")
	companyType := r.URL.Query().Get("company_type")

	var docs []document.Document
	var err error
	switch {
	case productType == "" && companyType == "":
		docs, err = s.loader.LoadAllDocuments()
	case productType == "" || companyType == "":
		jsonError(w, "product_type and company_type must be given together", http.StatusBadRequest)
		return
	case !slices.Contains(s.cfg.ProductTypes, productType):
		jsonError(w, "unknown product_type: "+productType, http.StatusBadRequest)
		return
	case !slices.Contains(s.cfg.CompanyTypes, companyType):
		jsonError(w, "unknown company_type: "+companyType, http.StatusBadRequest)
		return
	default:
		docs, err = s.loader.LoadProductDocuments(productType, companyType)
	}
	if err != nil {
		s.log.Error("load documents failed", "error", err)
		jsonError(w, "failed to load documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"count":     len(docs),
		"documents": docs,
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.loader.AvailableProducts()
	if err != nil {
		s.log.Error("list products failed", "error", err)
		jsonError(w, "failed to list products: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, products)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	docs, err := s.loader.LoadAllDocuments()
	if err != nil {
		s.log.Error("load documents failed", "error", err)
		jsonError(w, "failed to load documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats.Compute(docs))
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	tables, err := prices.Load(s.loader.DataDir(), s.reporter(r))
	if err != nil {
		s.log.Error("load prices failed", "error", err)
		jsonError(w, "failed to load prices: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, tables)
}

// handleReport renders the summary as Markdown, or as HTML with
// ?format=html.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "markdown" && format != "html" {
		jsonError(w, "format must be markdown or html", http.StatusBadRequest)
		return
	}

	in, err := s.reportInput(r)
	if err != nil {
		s.log.Error("build report failed", "error", err)
		jsonError(w, "failed to build report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	md := report.Build(in)

	if format == "html" {
		out, err := report.HTML(md)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(out))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

func (s *Server) reportInput(r *http.Request) (report.Input, error) {
	products, err := s.loader.AvailableProducts()
	if err != nil {
		return report.Input{}, err
	}
	docs, err := s.loader.LoadAllDocuments()
	if err != nil {
		return report.Input{}, err
	}
	tables, err := prices.Load(s.loader.DataDir(), s.reporter(r))
	if err != nil {
		return report.Input{}, err
	}
	return report.Input{
		ProductTypes: s.cfg.ProductTypes,
		CompanyTypes: s.cfg.CompanyTypes,
		Products:     products,
		Documents:    docs,
		Prices:       tables,
	}, nil
}

// reporter tags diagnostics raised while serving r with its request ID.
func (s *Server) reporter(r *http.Request) diag.Reporter {
	return diag.With(diag.NewSlogReporter(s.log), "request_id", middleware.GetReqID(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
