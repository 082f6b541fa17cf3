package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/security/validation"
	"github.com/username/tokoledger/backend/src/services"
	"github.com/username/tokoledger/backend/src/store"
	"github.com/username/tokoledger/backend/src/utils"
)

type InvestorHandler struct {
	store     store.LedgerStore
	dividends services.DividendService
}

func NewInvestorHandler(st store.LedgerStore, dividends services.DividendService) *InvestorHandler {
	return &InvestorHandler{store: st, dividends: dividends}
}

type investorRequest struct {
	UserID          *int64  `json:"user_id,omitempty"`
	Name            string  `json:"name"`
	TotalInvestment int64   `json:"total_investment"`
	SharePercent    float64 `json:"share_percent"`
}

func (h *InvestorHandler) CreateInvestor(w http.ResponseWriter, r *http.Request) {
	var req investorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Name, "name"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := validation.ValidateNonNegativeAmount(req.TotalInvestment, "total_investment"); err != nil {
		respondDomainError(w, r, err)
		return
	}

	inv := &models.Investor{
		UserID:          req.UserID,
		Name:            validation.CleanFreeText(req.Name),
		TotalInvestment: req.TotalInvestment,
		SharePercent:    req.SharePercent,
	}
	if err := h.store.CreateInvestor(r.Context(), inv); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, inv, http.StatusCreated)
}

func (h *InvestorHandler) ListInvestors(w http.ResponseWriter, r *http.Request) {
	investors, err := h.store.ListInvestors(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if investors == nil {
		investors = []models.Investor{}
	}
	utils.WriteJSON(w, investors, http.StatusOK)
}

// investorDetail is an investor plus its capital history (every transaction
// referencing the investor).
type investorDetail struct {
	models.Investor
	CapitalHistory []models.Transaction `json:"capital_history"`
}

func (h *InvestorHandler) GetInvestor(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid investor id", http.StatusBadRequest)
		return
	}
	inv, err := h.store.GetInvestor(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	history, err := h.store.ListTransactions(r.Context(), store.TransactionFilter{InvestorID: &inv.ID})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if history == nil {
		history = []models.Transaction{}
	}
	utils.WriteJSON(w, investorDetail{Investor: *inv, CapitalHistory: history}, http.StatusOK)
}

// UpdateInvestor is the explicit profile edit that changes capital totals.
func (h *InvestorHandler) UpdateInvestor(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid investor id", http.StatusBadRequest)
		return
	}
	var req investorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Name, "name"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := validation.ValidateNonNegativeAmount(req.TotalInvestment, "total_investment"); err != nil {
		respondDomainError(w, r, err)
		return
	}

	inv, err := h.store.GetInvestor(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	inv.Name = validation.CleanFreeText(req.Name)
	inv.TotalInvestment = req.TotalInvestment
	inv.SharePercent = req.SharePercent
	if err := h.store.UpdateInvestor(r.Context(), inv); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, inv, http.StatusOK)
}

type distributeRequest struct {
	TotalAmount int64  `json:"total_amount"`
	ActorID     *int64 `json:"actor_id,omitempty"`
}

func (h *InvestorHandler) HandleDistributeDividends(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.dividends.Distribute(r.Context(), req.TotalAmount, req.ActorID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, result, http.StatusOK)
}
