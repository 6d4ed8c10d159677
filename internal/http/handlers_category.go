package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
)

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	label := sanitizeInput(r.FormValue("category"))

	if err := s.registry.Add(r.Context(), label); err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyCategory):
			UnprocessableEntityError("Category name cannot be empty").Write(w)
		case errors.Is(err, services.ErrDuplicateCategory):
			UnprocessableEntityError(fmt.Sprintf("Category %q already exists", label)).Write(w)
		default:
			slog.ErrorContext(r.Context(), "Failed to add category",
				"error", err,
				"category", label,
				"component", "category_handler",
				"operation", "add")
			InternalServerError("Error adding category").Write(w)
		}
		return
	}

	slog.InfoContext(r.Context(), "Category added",
		"category", label,
		"component", "category_handler",
		"operation", "add")

	NewHTMXResponse().
		TriggerFormReset().
		TriggerCategoriesChanged().
		TriggerSuccessNotification(fmt.Sprintf("Added category %q", label)).
		Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	label := sanitizeInput(r.FormValue("category"))
	if label == "" {
		BadRequestError("Missing category name").Write(w)
		return
	}

	// Existing expenses keep the label; they simply reference a
	// category that is no longer offered for new entries.
	if err := s.registry.Remove(r.Context(), label); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(fmt.Sprintf("Category %q not found", label)).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to remove category",
			"error", err,
			"category", label,
			"component", "category_handler",
			"operation", "remove")
		InternalServerError("Error removing category").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Category removed",
		"category", label,
		"component", "category_handler",
		"operation", "remove")

	NewHTMXResponse().
		TriggerCategoriesChanged().
		TriggerSuccessNotification(fmt.Sprintf("Removed category %q", label)).
		Write(w)
}
