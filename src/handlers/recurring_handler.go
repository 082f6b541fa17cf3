package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/scheduler"
	"github.com/username/tokoledger/backend/src/security/validation"
	"github.com/username/tokoledger/backend/src/store"
	"github.com/username/tokoledger/backend/src/utils"
)

type RecurringHandler struct {
	store store.LedgerStore
	sched *scheduler.RecurringScheduler
}

func NewRecurringHandler(st store.LedgerStore, sched *scheduler.RecurringScheduler) *RecurringHandler {
	return &RecurringHandler{store: st, sched: sched}
}

type recurringRequest struct {
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Frequency   string `json:"frequency"`
	NextDueDate string `json:"next_due_date"` // YYYY-MM-DD
}

func (h *RecurringHandler) CreateRecurringExpense(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Name, "name"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := validation.ValidatePositiveAmount(req.Amount, "amount"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	freq := models.Frequency(req.Frequency)
	switch freq {
	case models.FreqDaily, models.FreqWeekly, models.FreqMonthly, models.FreqYearly:
	default:
		utils.SendJSONError(w, "frequency must be DAILY, WEEKLY, MONTHLY or YEARLY", http.StatusBadRequest)
		return
	}
	nextDue, err := utils.ParseDateParam(req.NextDueDate)
	if err != nil || nextDue == nil {
		utils.SendJSONError(w, "invalid next_due_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	re := &models.RecurringExpense{
		Name:        validation.CleanFreeText(req.Name),
		Amount:      req.Amount,
		Category:    validation.CleanFreeText(req.Category),
		Frequency:   freq,
		NextDueDate: *nextDue,
		Active:      true,
	}
	if err := h.store.CreateRecurringExpense(r.Context(), re); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, re, http.StatusCreated)
}

func (h *RecurringHandler) ListRecurringExpenses(w http.ResponseWriter, r *http.Request) {
	defs, err := h.store.ListRecurringExpenses(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if defs == nil {
		defs = []models.RecurringExpense{}
	}
	utils.WriteJSON(w, defs, http.StatusOK)
}

func (h *RecurringHandler) DeactivateRecurringExpense(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid recurring expense id", http.StatusBadRequest)
		return
	}
	if err := h.store.SetRecurringExpenseActive(r.Context(), id, false); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRunNow triggers one scheduler pass outside the daily timer.
func (h *RecurringHandler) HandleRunNow(w http.ResponseWriter, r *http.Request) {
	processed, failed := h.sched.RunOnce(r.Context())
	utils.WriteJSON(w, map[string]int{"processed": processed, "failed": failed}, http.StatusOK)
}
