package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/tokoledger/backend/src/config"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/security/validation"
	"github.com/username/tokoledger/backend/src/services"
	"github.com/username/tokoledger/backend/src/store"
	"github.com/username/tokoledger/backend/src/utils"
)

type TransactionHandler struct {
	ledger services.LedgerService
}

func NewTransactionHandler(ledger services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type saleRequest struct {
	Lines          []services.SaleLine `json:"lines"`
	PaymentMethod  string              `json:"payment_method"`
	TaxRatePercent *float64            `json:"tax_rate_percent,omitempty"`
	AdminFee       *int64              `json:"admin_fee,omitempty"`
	ActorID        *int64              `json:"actor_id,omitempty"`
}

// HandleRecordSale checks out a cart. Tax rate and admin fee default from
// config when the request omits them.
func (h *TransactionHandler) HandleRecordSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in := services.SaleInput{
		Lines:          req.Lines,
		PaymentMethod:  req.PaymentMethod,
		TaxRatePercent: config.Cfg.TaxRatePercent,
		AdminFee:       config.Cfg.DefaultAdminFee,
		ActorID:        req.ActorID,
	}
	if req.TaxRatePercent != nil {
		in.TaxRatePercent = *req.TaxRatePercent
	}
	if req.AdminFee != nil {
		in.AdminFee = *req.AdminFee
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "CASH"
	}

	tx, err := h.ledger.RecordSale(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, tx, http.StatusCreated)
}

func (h *TransactionHandler) HandleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var in services.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	in.Category = validation.CleanFreeText(in.Category)
	in.Description = validation.CleanFreeText(in.Description)
	if err := validation.ValidateStringMaxLength(in.Category, validation.MaxCategoryLength, "category"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := validation.ValidateStringMaxLength(in.Description, validation.MaxDescriptionLength, "description"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "CASH"
	}

	tx, err := h.ledger.RecordExpense(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, tx, http.StatusCreated)
}

func (h *TransactionHandler) HandleRecordCapital(w http.ResponseWriter, r *http.Request) {
	var in services.CapitalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	in.Description = validation.CleanFreeText(in.Description)

	tx, err := h.ledger.RecordCapital(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, tx, http.StatusCreated)
}

// HandleListTransactions filters by optional kind, from and to query params
// (dates are YYYY-MM-DD; to covers its whole day).
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	var f store.TransactionFilter

	if kindStr := r.URL.Query().Get("kind"); kindStr != "" {
		kind := models.TransactionKind(kindStr)
		if !kind.Valid() {
			utils.SendJSONError(w, "unknown transaction kind", http.StatusBadRequest)
			return
		}
		f.Kind = &kind
	}

	from, err := utils.ParseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		utils.SendJSONError(w, "invalid 'from' date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := utils.ParseEndDateParam(r.URL.Query().Get("to"))
	if err != nil {
		utils.SendJSONError(w, "invalid 'to' date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	f.From, f.To = from, to
	f.WithLines = r.URL.Query().Get("with_lines") == "true"

	txs, err := h.ledger.ListTransactions(r.Context(), f)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	utils.WriteJSON(w, txs, http.StatusOK)
}
