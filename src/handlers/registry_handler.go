package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/security/validation"
	"github.com/username/tokoledger/backend/src/store"
	"github.com/username/tokoledger/backend/src/utils"
)

// RegistryHandler covers the thin users and suppliers records the ledger
// references from transactions and stock events.
type RegistryHandler struct {
	store store.LedgerStore
}

func NewRegistryHandler(st store.LedgerStore) *RegistryHandler {
	return &RegistryHandler{store: st}
}

func (h *RegistryHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(u.Username, "username"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	u.Username = validation.CleanFreeText(u.Username)
	if u.Role == "" {
		u.Role = "cashier"
	}
	if err := h.store.CreateUser(r.Context(), &u); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, u, http.StatusCreated)
}

func (h *RegistryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *RegistryHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var s models.Supplier
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(s.Name, "name"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.Name = validation.CleanFreeText(s.Name)
	s.Contact = validation.CleanFreeText(s.Contact)
	if err := h.store.CreateSupplier(r.Context(), &s); err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, s, http.StatusCreated)
}

func (h *RegistryHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.ListSuppliers(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	utils.WriteJSON(w, suppliers, http.StatusOK)
}
