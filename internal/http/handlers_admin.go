package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finanzas/internal/export"
	"finanzas/internal/services"
)

type categoryView struct {
	Key   string `json:"key"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	registry, err := s.categories.Registry(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]categoryView, 0, registry.Len())
	for _, key := range registry.Keys() {
		c, _ := registry.Get(key)
		out = append(out, categoryView{Key: key, Icon: c.Icon, Label: c.Label})
	}
	respondJSON(w, http.StatusOK, out)
}

type categoryRequest struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	key, err := s.categories.Add(r.Context(), sanitizeInput(req.Label), sanitizeInput(req.Icon))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusCreated, categoryView{Key: key, Icon: req.Icon, Label: req.Label})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.categories.Update(r.Context(), key, sanitizeInput(req.Label), sanitizeInput(req.Icon)); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, categoryView{Key: key, Icon: req.Icon, Label: req.Label})
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.categories.Remove(r.Context(), key); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("finanzas-backup-%s.json", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := s.backups.Export(r.Context(), w); err != nil {
		// Headers are already out; nothing left to do but log.
		slog.ErrorContext(r.Context(), "Backup export failed", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := s.backups.Import(r.Context(), r.Body); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.backups.ClearAll(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, s.now())
	if err != nil {
		respondError(w, r, err)
		return
	}

	expenses, income, registry, err := s.chartInputs(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	report, err := s.planner.Report(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("finanzas-%s.xlsx", month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	err = export.MonthStatement(w, month,
		services.FilterExpensesByMonth(expenses, month),
		services.FilterIncomeByMonth(income, month),
		report, registry)
	if err != nil {
		slog.ErrorContext(r.Context(), "XLSX export failed", "month", month, "error", err)
	}
}
