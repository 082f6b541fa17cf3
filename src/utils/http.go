package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/username/tokoledger/backend/src/logger"
)

// JSONErrorResponse is the standard error envelope.
type JSONErrorResponse struct {
	Error string `json:"error"`
}

// SendJSONError writes a JSON error envelope with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(JSONErrorResponse{Error: message}); err != nil {
		logger.L.Error("Failed to encode JSON error response", "error", err)
	}
}

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}

// ParseDateParam parses an optional YYYY-MM-DD query parameter. An empty
// value yields a nil time.
func ParseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// ParseEndDateParam parses an optional YYYY-MM-DD query parameter as an
// inclusive end bound: the returned instant is the last second of that day,
// so a range ending on a date covers the whole day. An empty value yields a
// nil time.
func ParseEndDateParam(value string) (*time.Time, error) {
	t, err := ParseDateParam(value)
	if err != nil || t == nil {
		return t, err
	}
	end := t.AddDate(0, 0, 1).Add(-time.Second)
	return &end, nil
}

// ParseIDParam parses a positive int64 path parameter.
func ParseIDParam(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
