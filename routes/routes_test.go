package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/address-corrector/app/controllers"
	"github.com/address-corrector/app/models"
	"github.com/address-corrector/app/services"
	"github.com/address-corrector/internal/cascade"
	"github.com/address-corrector/internal/decomposer"
	"github.com/address-corrector/internal/geocode"
	"github.com/address-corrector/internal/stats"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubCorrector struct{}

func (stubCorrector) Correct(ctx context.Context, address string) *models.CorrectionResult {
	return &models.CorrectionResult{
		CorrectedAddress: address,
		Corrections:      []string{"none"},
		Confidence:       0.95,
	}
}

type stubGeocoder struct{}

func (stubGeocoder) Search(ctx context.Context, query string) ([]models.Place, error) {
	return []models.Place{
		{DisplayName: query, Lat: "6.60", Lon: "3.35"},
		{DisplayName: query + " (alt)", Lat: "6.61", Lon: "3.36"},
	}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWith(t, stubCorrector{})
}

func newTestRouterWith(t *testing.T, corrector services.Corrector) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	svc := services.NewAddressService(
		corrector,
		decomposer.NewDecomposer(),
		cascade.NewOrchestrator(2, logger),
		stubGeocoder{},
		geocode.NewNominatimClient(geocode.NominatimConfig{}, logger),
		nil,
		stats.NewTracker(0, 0),
		logger,
	)

	router := gin.New()
	SetupAllRoutes(router,
		controllers.NewAddressController(svc, logger),
		controllers.NewAdminController(nil, logger))
	return router
}

func TestFormatAddressEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"address": "Allen Avenue, Ikeja, Lagos"}`)
	req := httptest.NewRequest(http.MethodPost, "/format-address", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["corrected"] != "Allen Avenue, Ikeja, Lagos" {
		t.Errorf("corrected = %v", resp["corrected"])
	}
	if _, ok := resp["formatted"]; !ok {
		t.Error("response missing formatted block")
	}
	if url, _ := resp["nominatimUrl"].(string); !strings.Contains(url, "format=json") {
		t.Errorf("nominatimUrl = %q", url)
	}
}

func TestFormatAddressEndpoint_MissingAddress(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/format-address", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=Allen+Avenue%2C+Ikeja%2C+Lagos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	results, ok := resp["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Errorf("results = %v", resp["results"])
	}
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Drive one correction through so the counters move
	body := strings.NewReader(`{"address": "Allen Avenue, Ikeja, Lagos"}`)
	req := httptest.NewRequest(http.MethodPost, "/format-address", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if _, ok := resp["stats"]; !ok {
		t.Error("response missing stats block")
	}
	if _, ok := resp["recentAddresses"]; !ok {
		t.Error("response missing recentAddresses block")
	}
}

type deadlineRecorder struct {
	hasDeadline bool
}

func (dr *deadlineRecorder) Correct(ctx context.Context, address string) *models.CorrectionResult {
	_, dr.hasDeadline = ctx.Deadline()
	return &models.CorrectionResult{CorrectedAddress: address, Corrections: []string{"none"}, Confidence: 0.95}
}

func TestRequestContextCarriesBudget(t *testing.T) {
	recorder := &deadlineRecorder{}
	router := newTestRouterWith(t, recorder)

	body := strings.NewReader(`{"address": "Allen Avenue, Ikeja, Lagos"}`)
	req := httptest.NewRequest(http.MethodPost, "/format-address", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !recorder.hasDeadline {
		t.Error("request context reached the corrector without a deadline")
	}
}

func TestUnknownRouteReturnsPlainText(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if w.Body.String() != "Not found" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestSeedEndpoint_GazetteerDisabled(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"places": [{"place_id": 1, "name": "Ikeja"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/gazetteer/seed", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
