package handler

import (
	"net/http"
	"time"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/internal/rebalance/service"
	"github.com/wardstock/wardstock-backend/pkg/errors"
	"github.com/wardstock/wardstock-backend/pkg/httputil"
	"github.com/wardstock/wardstock-backend/pkg/logger"
)

// AnalyticsHandler handles transfer analytics endpoints
type AnalyticsHandler struct {
	service *service.RebalanceService
	logger  *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *service.RebalanceService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		logger:  log,
	}
}

// ReportRequest carries inline transfer records plus the reporting window.
type ReportRequest struct {
	Records   []domain.TransferRecord `json:"records" validate:"dive"`
	TimeRange domain.TimeRange        `json:"time_range" validate:"required"`
}

// Report builds an analytics report from records supplied in the request
// body.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.GenerateReport(r.Context(), req.Records, req.TimeRange)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// ReportFromStore builds an analytics report from the stored transfer
// history. The window comes from the from/to query parameters (RFC 3339).
func (h *AnalyticsHandler) ReportFromStore(w http.ResponseWriter, r *http.Request) {
	timeRange, err := parseTimeRange(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.GenerateReportFromStore(r.Context(), timeRange)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build analytics report")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

func parseTimeRange(r *http.Request) (domain.TimeRange, error) {
	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")
	if fromParam == "" || toParam == "" {
		return domain.TimeRange{}, errors.BadRequest("from and to query parameters are required")
	}

	from, err := time.Parse(time.RFC3339, fromParam)
	if err != nil {
		return domain.TimeRange{}, errors.BadRequest("from must be an RFC 3339 timestamp")
	}

	to, err := time.Parse(time.RFC3339, toParam)
	if err != nil {
		return domain.TimeRange{}, errors.BadRequest("to must be an RFC 3339 timestamp")
	}

	return domain.TimeRange{From: from, To: to}, nil
}
