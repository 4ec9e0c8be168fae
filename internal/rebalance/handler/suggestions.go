package handler

import (
	"net/http"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/internal/rebalance/service"
	"github.com/wardstock/wardstock-backend/pkg/httputil"
	"github.com/wardstock/wardstock-backend/pkg/logger"
)

// SuggestionHandler handles transfer suggestion endpoints
type SuggestionHandler struct {
	service *service.RebalanceService
	logger  *logger.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(svc *service.RebalanceService, log *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service: svc,
		logger:  log,
	}
}

// GenerateRequest carries an inline inventory snapshot. This is the path
// the dashboard uses when it already holds fresh stock data client-side.
type GenerateRequest struct {
	Items []domain.Item `json:"items" validate:"dive"`
}

// Generate runs a recommendation cycle over a snapshot supplied in the
// request body.
func (h *SuggestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	set := h.service.GenerateSuggestions(r.Context(), req.Items)
	httputil.JSON(w, http.StatusOK, set)
}

// GenerateFromStore runs a recommendation cycle over the snapshot currently
// held in the inventory database.
func (h *SuggestionHandler) GenerateFromStore(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.GenerateSuggestionsFromStore(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load inventory snapshot")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, set)
}
