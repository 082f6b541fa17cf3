package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/username/tokoledger/backend/src/security/validation"
	"github.com/username/tokoledger/backend/src/services"
	"github.com/username/tokoledger/backend/src/utils"
)

type AssetHandler struct {
	ledger services.LedgerService
	assets services.AssetService
}

func NewAssetHandler(ledger services.LedgerService, assets services.AssetService) *AssetHandler {
	return &AssetHandler{ledger: ledger, assets: assets}
}

type assetPurchaseRequest struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	PurchasePrice    int64  `json:"purchase_price"`
	PurchaseDate     string `json:"purchase_date"` // YYYY-MM-DD, optional
	UsefulLifeMonths int64  `json:"useful_life_months"`
	PaymentMethod    string `json:"payment_method"`
	ActorID          *int64 `json:"actor_id,omitempty"`
}

// HandleCreateAsset registers the asset and its ASSET_PURCHASE transaction.
func (h *AssetHandler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Name, "name"); err != nil {
		respondDomainError(w, r, err)
		return
	}

	in := services.AssetPurchaseInput{
		Name:             validation.CleanFreeText(req.Name),
		Category:         validation.CleanFreeText(req.Category),
		PurchasePrice:    req.PurchasePrice,
		UsefulLifeMonths: req.UsefulLifeMonths,
		PaymentMethod:    req.PaymentMethod,
		ActorID:          req.ActorID,
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "TRANSFER"
	}
	if req.PurchaseDate != "" {
		date, err := utils.ParseDateParam(req.PurchaseDate)
		if err != nil {
			utils.SendJSONError(w, "invalid purchase_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.PurchaseDate = *date
	}

	asset, tx, err := h.ledger.RecordAssetPurchase(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]any{"asset": asset, "transaction": tx}, http.StatusCreated)
}

// HandleListAssets returns assets with book values recomputed at call time.
func (h *AssetHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.ListWithValue(r.Context(), time.Now().UTC())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, assets, http.StatusOK)
}
