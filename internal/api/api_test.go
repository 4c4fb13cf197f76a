package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/logging"
	"github.com/fincast-dev/fincast/internal/plan"
	"github.com/fincast-dev/fincast/internal/scenario"
	"github.com/fincast-dev/fincast/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := logging.Discard()
	svc := scenario.NewService(store.NewMemory(), log, plan.Options{DefaultStartYear: 2026})
	return NewServer(svc, log, aggregate.Quarterly, 2026).Router()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func planBody(name string, years int, freq string) map[string]any {
	return map[string]any{
		"name":      name,
		"startYear": 2026,
		"years":     years,
		"taxRate":   "25",
		"freq":      freq,
		"accounts": []map[string]any{
			{"name": "Checking", "category": "cash", "principal": 1000},
		},
		"incomes": []map[string]any{
			{"name": "Salary", "category": "salary", "annualAmount": 12000},
		},
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSchema(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Len(t, body["freqOptions"], 3)
	assert.Contains(t, body["accountCategories"], "investment")
	assert.Equal(t, "Q", body["freq"])
}

func TestMonths(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/months?startYear=2027&years=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	months := decode[map[string][]string](t, rec)["months"]
	require.Len(t, months, 24)
	assert.Equal(t, "2027-01", months[0])
	assert.Equal(t, "2028-12", months[23])

	rec = do(t, h, http.MethodGet, "/api/months", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]string](t, rec)["months"], 12)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/months?years=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/months?startYear=abc", nil).Code)
}

func TestAddAndListScenarios(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/scenarios", planBody("Base", 2, "Y"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	added := decode[scenariosResponse](t, rec)
	assert.Equal(t, "Base", added.Added)
	assert.Equal(t, []string{"Base"}, added.Scenarios)
	assert.Equal(t, aggregate.Yearly, added.Freq)
	require.Len(t, added.Data, 2)
	assert.Equal(t, "2026", added.Data[0].Period)
	assert.Equal(t, "10000.00", added.Data[0].NetWorth.StringFixed(2), "1000 + 12 * 750")

	rec = do(t, h, http.MethodPost, "/api/scenarios", planBody("Lean", 1, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, aggregate.Quarterly, decode[scenariosResponse](t, rec).Freq)

	rec = do(t, h, http.MethodGet, "/api/scenarios?freq=monthly", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[scenariosResponse](t, rec)
	assert.Equal(t, []string{"Base", "Lean"}, list.Scenarios)
	assert.Len(t, list.Data, 24+12)
	assert.Equal(t, "Base", list.Data[0].Scenario)
	assert.Equal(t, "Lean", list.Data[1].Scenario, "scenarios interleave by period")
}

func TestAddScenario_ReportsAmbiguities(t *testing.T) {
	body := planBody("Invest", 1, "Y")
	body["accounts"] = []map[string]any{{"name": "Fund", "category": "investment", "principal": 500}}

	rec := do(t, newTestServer(t), http.MethodPost, "/api/scenarios", body)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[scenariosResponse](t, rec)
	require.Len(t, resp.Ambiguities, 1)
	assert.Equal(t, "Cash Reserve", resp.Ambiguities[0].Account)
}

func TestAddScenario_ValidationErrors(t *testing.T) {
	body := planBody("Bad", 0, "Y")
	body["taxRate"] = "lots"

	rec := do(t, newTestServer(t), http.MethodPost, "/api/scenarios", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "invalid plan", resp.Error)

	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"years", "taxRate"}, fields)
}

func TestAddScenario_BadRequest(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/scenarios", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/scenarios", planBody("Base", 1, "W"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/scenarios?freq=daily", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndDeleteScenario(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/scenarios", planBody("Base", 1, "Y")).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/scenarios", planBody("Other", 1, "Y")).Code)

	rec := do(t, h, http.MethodGet, "/api/scenarios/Base", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Len(t, body["months"], 12)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/scenarios/Missing", nil).Code)

	rec = do(t, h, http.MethodDelete, "/api/scenarios/Base", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Other"}, decode[map[string]any](t, rec)["scenarios"])
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/scenarios/Base", nil).Code)

	rec = do(t, h, http.MethodDelete, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/scenarios", nil)
	list := decode[scenariosResponse](t, rec)
	assert.Empty(t, list.Scenarios)
	assert.Empty(t, list.Data)
}

func TestUnknownRouteAndPreflight(t *testing.T) {
	h := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/nope", nil).Code)

	rec := do(t, h, http.MethodOptions, "/api/scenarios", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET,POST,DELETE,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
