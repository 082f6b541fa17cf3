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

type ProductHandler struct {
	store store.LedgerStore
	stock services.StockService
}

func NewProductHandler(st store.LedgerStore, stock services.StockService) *ProductHandler {
	return &ProductHandler{store: st, stock: stock}
}

type productRequest struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Price int64  `json:"price"`
	Cost  *int64 `json:"cost,omitempty"`
	Stock int64  `json:"stock"`
}

func (req *productRequest) validate() error {
	if err := validation.ValidateStringNotEmpty(req.Name, "name"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(req.Name, validation.MaxNameLength, "name"); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(req.SKU, "sku"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(req.SKU, validation.MaxSKULength, "sku"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeAmount(req.Price, "price"); err != nil {
		return err
	}
	kind := models.ProductKind(req.Kind)
	if kind != models.ProductGoods && kind != models.ProductService {
		return validation.ErrValidationFailed
	}
	return nil
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	p := &models.Product{
		SKU:   validation.CleanFreeText(req.SKU),
		Name:  validation.CleanFreeText(req.Name),
		Kind:  models.ProductKind(req.Kind),
		Price: req.Price,
		Cost:  req.Cost,
		Stock: req.Stock,
	}
	if p.Kind == models.ProductService {
		// Services carry no cost basis and never track stock.
		p.Cost = nil
		p.Stock = 0
	}
	if err := h.store.CreateProduct(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, p, http.StatusCreated)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.WriteJSON(w, products, http.StatusOK)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	p, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	p.SKU = validation.CleanFreeText(req.SKU)
	p.Name = validation.CleanFreeText(req.Name)
	p.Kind = models.ProductKind(req.Kind)
	p.Price = req.Price
	p.Cost = req.Cost
	if p.Kind == models.ProductService {
		p.Cost = nil
	}
	if err := h.store.UpdateProduct(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, p, http.StatusOK)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	events, err := h.stock.Movements(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if events == nil {
		events = []models.StockEvent{}
	}
	utils.WriteJSON(w, events, http.StatusOK)
}

func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var in services.RestockInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	in.ProductID = id
	in.Note = validation.CleanFreeText(in.Note)
	if err := validation.ValidateStringMaxLength(in.Note, validation.MaxNoteLength, "note"); err != nil {
		respondDomainError(w, r, err)
		return
	}

	event, err := h.stock.Restock(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, event, http.StatusCreated)
}
