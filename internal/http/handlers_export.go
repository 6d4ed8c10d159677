package http

import (
	"log/slog"
	"net/http"
	"time"

	"expensetracker/internal/core"
)

// handleExportCSV streams the filtered expenses as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	all, err := s.ledger.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing expenses for export",
			"error", err,
			"component", "export_handler")
		http.Error(w, "Error reading expenses", http.StatusInternalServerError)
		return
	}

	expenses := core.Apply(all, filter)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFilename(time.Now())+`"`)

	if err := core.WriteCSV(w, expenses); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed",
			"error", err,
			"count", len(expenses),
			"component", "export_handler")
		return
	}

	slog.InfoContext(r.Context(), "CSV export completed",
		"count", len(expenses),
		"component", "export_handler")
}
