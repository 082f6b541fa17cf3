package handlers

import (
	"net/http"
	"strconv"

	"github.com/username/tokoledger/backend/src/services"
	"github.com/username/tokoledger/backend/src/utils"
)

type ReportHandler struct {
	reports  services.ReportService
	forecast services.ForecastService
}

func NewReportHandler(reports services.ReportService, forecast services.ForecastService) *ReportHandler {
	return &ReportHandler{reports: reports, forecast: forecast}
}

func (h *ReportHandler) HandleProfitLoss(w http.ResponseWriter, r *http.Request) {
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

	st, err := h.reports.ProfitLoss(r.Context(), from, to)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, st, http.StatusOK)
}

func (h *ReportHandler) HandleCashFlow(w http.ResponseWriter, r *http.Request) {
	st, err := h.reports.CashFlow(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, st, http.StatusOK)
}

func (h *ReportHandler) HandleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	st, err := h.reports.BalanceSheet(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, st, http.StatusOK)
}

func (h *ReportHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Dashboard(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, summary, http.StatusOK)
}

// HandleForecast projects revenue `days` days forward (default 7, max 90).
func (h *ReportHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 || parsed > 90 {
			utils.SendJSONError(w, "invalid 'days', expected 1-90", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	result, err := h.forecast.Forecast(r.Context(), days)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, result, http.StatusOK)
}
