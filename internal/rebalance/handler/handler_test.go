package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardstock/wardstock-backend/internal/rebalance/handler"
	"github.com/wardstock/wardstock-backend/internal/rebalance/service"
	"github.com/wardstock/wardstock-backend/pkg/logger"
)

func newHandlers() (*handler.SuggestionHandler, *handler.AnalyticsHandler) {
	log := logger.New("test", "test")
	svc := service.NewRebalanceService(nil, nil, nil, nil, service.Options{}, log)
	return handler.NewSuggestionHandler(svc, log), handler.NewAnalyticsHandler(svc, log)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func doRequest(t *testing.T, fn http.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	fn(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestGenerate_InlineSnapshot(t *testing.T) {
	suggestions, _ := newHandlers()

	body := `{
		"items": [{
			"item_id": "item-x",
			"name": "Item X",
			"stock": [
				{"location_id": "loc-a", "item_id": "item-x", "quantity": 0, "minimum_threshold": 20},
				{"location_id": "loc-b", "item_id": "item-x", "quantity": 80, "minimum_threshold": 20}
			]
		}]
	}`

	rec, env := doRequest(t, suggestions.Generate, http.MethodPost, "/api/v1/rebalance/suggestions", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var set service.SuggestionSet
	require.NoError(t, json.Unmarshal(env.Data, &set))
	assert.Equal(t, "deterministic", string(set.Source))
	require.Len(t, set.Suggestions, 1)
	assert.Equal(t, 30, set.Suggestions[0].SuggestedQuantity)
	assert.Equal(t, "critical", string(set.Suggestions[0].Urgency))
}

func TestGenerate_InvalidBody(t *testing.T) {
	suggestions, _ := newHandlers()

	rec, env := doRequest(t, suggestions.Generate, http.MethodPost, "/api/v1/rebalance/suggestions", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestGenerate_EmptySnapshot(t *testing.T) {
	suggestions, _ := newHandlers()

	rec, env := doRequest(t, suggestions.Generate, http.MethodPost, "/api/v1/rebalance/suggestions", `{"items": []}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var set service.SuggestionSet
	require.NoError(t, json.Unmarshal(env.Data, &set))
	assert.Equal(t, "deterministic", string(set.Source))
	assert.Empty(t, set.Suggestions)
}

func TestReport_InlineRecords(t *testing.T) {
	_, analytics := newHandlers()

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := make([]map[string]interface{}, 0, 10)
	for i := 0; i < 10; i++ {
		status := "completed"
		if i >= 7 {
			status = "failed"
		}
		records = append(records, map[string]interface{}{
			"transfer_id":   "t",
			"item_id":       "item-1",
			"from_location": "central",
			"to_location":   "ward-a",
			"quantity":      5,
			"priority":      "medium",
			"status":        status,
			"automated":     i < 3,
			"created_at":    from.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
		})
	}

	body, err := json.Marshal(map[string]interface{}{
		"records": records,
		"time_range": map[string]string{
			"from": from.Format(time.RFC3339),
			"to":   from.AddDate(0, 1, 0).Format(time.RFC3339),
		},
	})
	require.NoError(t, err)

	rec, env := doRequest(t, analytics.Report, http.MethodPost, "/api/v1/rebalance/analytics/report", string(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var report struct {
		TotalTransfers int `json:"total_transfers"`
		Efficiency     int `json:"efficiency"`
		AutomationRate int `json:"automation_rate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 10, report.TotalTransfers)
	assert.Equal(t, 70, report.Efficiency)
	assert.Equal(t, 30, report.AutomationRate)
}

func TestReport_InvertedRange(t *testing.T) {
	_, analytics := newHandlers()

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	body, err := json.Marshal(map[string]interface{}{
		"records": []interface{}{},
		"time_range": map[string]string{
			"from": from.Format(time.RFC3339),
			"to":   from.Add(-time.Hour).Format(time.RFC3339),
		},
	})
	require.NoError(t, err)

	rec, env := doRequest(t, analytics.Report, http.MethodPost, "/api/v1/rebalance/analytics/report", string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestReportFromStore_MissingQueryParams(t *testing.T) {
	_, analytics := newHandlers()

	rec, env := doRequest(t, analytics.ReportFromStore, http.MethodGet, "/api/v1/rebalance/analytics/report", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "from and to")
}
