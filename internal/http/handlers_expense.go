package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"expensetracker/internal/store"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	exp, err := expenseFromForm(r)
	if err != nil {
		UnprocessableEntityError("Invalid expense: " + err.Error()).Write(w)
		return
	}

	if err := s.ledger.Create(r.Context(), exp); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			"error", err,
			"expense_date", exp.Date.String(),
			"amount_cents", exp.Amount.Cents,
			"category", exp.Category,
			"component", "expense_handler",
			"operation", "create")
		InternalServerError("Error saving expense").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Expense created successfully",
		"expense_date", exp.Date.String(),
		"amount_cents", exp.Amount.Cents,
		"category", exp.Category,
		"component", "expense_handler",
		"operation", "create")

	NewHTMXResponse().
		TriggerFormReset().
		TriggerLedgerChanged().
		TriggerSuccessNotification(fmt.Sprintf("Added %s expense of %s", exp.Category, formatAmount(exp.Amount.Cents))).
		Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	position, err := parsePosition(r.FormValue("position"))
	if err != nil {
		BadRequestError("Missing or invalid expense position").Write(w)
		return
	}

	exp, err := expenseFromForm(r)
	if err != nil {
		UnprocessableEntityError("Invalid expense: " + err.Error()).Write(w)
		return
	}

	if err := s.ledger.Update(r.Context(), position, exp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Expense no longer exists, refresh and retry").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update expense",
			"error", err,
			"position", position,
			"component", "expense_handler",
			"operation", "update")
		InternalServerError("Error updating expense").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Expense updated successfully",
		"position", position,
		"amount_cents", exp.Amount.Cents,
		"category", exp.Category,
		"component", "expense_handler",
		"operation", "update")

	NewHTMXResponse().
		TriggerLedgerChanged().
		TriggerSuccessNotification("Expense updated").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	position, err := parsePosition(r.FormValue("position"))
	if err != nil {
		BadRequestError("Missing or invalid expense position").Write(w)
		return
	}

	// Destructive: first request arms the confirmation, second within
	// the TTL executes the delete.
	key := fmt.Sprintf("expense:%d", position)
	if _, armed := s.confirmations.Take(key); !armed {
		s.confirmations.Set(key, "armed")
		NewHTMXResponse().
			TriggerWarningNotification("Click delete again to confirm").
			BodyHTML(`<div class="warning">Confirm deletion by clicking again</div>`).
			Write(w)
		return
	}

	if err := s.ledger.Delete(r.Context(), position); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Expense no longer exists, refresh and retry").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete expense",
			"error", err,
			"position", position,
			"component", "expense_handler",
			"operation", "delete")
		InternalServerError("Error deleting expense").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Expense deleted successfully",
		"position", position,
		"component", "expense_handler",
		"operation", "delete")

	NewHTMXResponse().
		TriggerLedgerChanged().
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if _, armed := s.confirmations.Take("clear"); !armed {
		s.confirmations.Set("clear", "armed")
		NewHTMXResponse().
			TriggerWarningNotification("This removes every expense. Click again to confirm").
			BodyHTML(`<div class="warning">Confirm clearing all expenses by clicking again</div>`).
			Write(w)
		return
	}

	if err := s.ledger.Clear(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear expenses",
			"error", err,
			"component", "expense_handler",
			"operation", "clear")
		InternalServerError("Error clearing expenses").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "All expenses cleared",
		"component", "expense_handler",
		"operation", "clear")

	NewHTMXResponse().
		TriggerLedgerChanged().
		TriggerSuccessNotification("All expenses cleared").
		Write(w)
}
