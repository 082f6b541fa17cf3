package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/utils"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"product not found", models.ErrProductNotFound, 404},
		{"record not found", models.ErrNotFound, 404},
		{"insufficient stock", models.ErrInsufficientStock, 409},
		{"invalid amount", models.ErrInvalidAmount, 400},
		{"insufficient data", models.ErrInsufficientData, 422},
		{"atomic write failed", models.ErrAtomicWriteFailed, 500},
		{"unknown error", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/sales", nil)
			respondDomainError(rec, req, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRespondDomainErrorHidesInternalDetail(t *testing.T) {
	wrapped := fmt.Errorf("%w: database is locked (5)", models.ErrAtomicWriteFailed)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sales", nil)
	respondDomainError(rec, req, wrapped)

	require.Equal(t, 500, rec.Code)
	var body utils.JSONErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, rec.Body.String(), "database is locked")
}
