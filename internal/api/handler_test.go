package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-crop-advisor/internal/comparison"
	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	internalgrpc "github.com/mr1hm/go-crop-advisor/internal/grpc"
	"github.com/mr1hm/go-crop-advisor/internal/models"
	"github.com/mr1hm/go-crop-advisor/internal/report"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

// mockRepo implements repository.CatalogReader for testing
type mockRepo struct {
	districts []models.District
	baselines []models.CropBaseline
	steps     []models.CultivationStep
	err       error
}

func matches(value, id, name string) bool {
	return strings.EqualFold(value, id) || strings.EqualFold(value, name)
}

func (m *mockRepo) ListDistricts(ctx context.Context) ([]models.District, error) {
	return m.districts, m.err
}

func (m *mockRepo) GetDistrict(ctx context.Context, nameOrID string) (*models.District, error) {
	for _, d := range m.districts {
		if matches(nameOrID, d.ID, d.Name) {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockRepo) ListBaselines(ctx context.Context, opts repository.Filter) ([]models.CropBaseline, error) {
	var results []models.CropBaseline
	for _, b := range m.baselines {
		if opts.District != "" && b.DistrictID != opts.District {
			continue
		}
		if b.Suitability < opts.MinSuitability {
			continue
		}
		results = append(results, b)
	}
	slices.SortStableFunc(results, func(a, b models.CropBaseline) int { return b.Suitability - a.Suitability })

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func (m *mockRepo) GetBaseline(ctx context.Context, district, crop string) (*models.CropBaseline, error) {
	d, err := m.GetDistrict(ctx, district)
	if err != nil {
		return nil, err
	}
	for _, b := range m.baselines {
		if b.DistrictID == d.ID && matches(crop, b.CropID, b.Name) {
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockRepo) ListCultivationSteps(ctx context.Context, cropID string) ([]models.CultivationStep, error) {
	var steps []models.CultivationStep
	for _, s := range m.steps {
		if s.CropID == cropID {
			steps = append(steps, s)
		}
	}
	return steps, nil
}

func (m *mockRepo) Counts(ctx context.Context) (repository.Counts, error) {
	return repository.Counts{Districts: len(m.districts), Suitability: len(m.baselines), Steps: len(m.steps)}, nil
}

type fakeSync struct {
	ready bool
	last  *models.CatalogEvent
}

func (f fakeSync) Ready() bool                     { return f.ready }
func (f fakeSync) LastEvent() *models.CatalogEvent { return f.last }

func coimbatore() *mockRepo {
	return &mockRepo{
		districts: []models.District{
			{ID: "coimbatore", Name: "Coimbatore", State: "Tamil Nadu"},
			{ID: "madurai", Name: "Madurai", State: "Tamil Nadu"},
		},
		baselines: []models.CropBaseline{
			{DistrictID: "coimbatore", CropID: "tomato", Name: "Tomato", Suitability: 88,
				EstimatedYield: "45-55 tonnes/hectare", MarketPrice: "₹25-35/kg", ExpectedRevenue: "₹11-19 lakhs/hectare"},
			{DistrictID: "coimbatore", CropID: "banana", Name: "Banana", Suitability: 93,
				EstimatedYield: "50-60 tonnes/hectare", MarketPrice: "₹15-25/kg", ExpectedRevenue: "₹7.5-15 lakhs/hectare",
				WaterNeeds: "High (1500-2000mm)"},
			{DistrictID: "coimbatore", CropID: "chilli", Name: "Chilli", Suitability: 90,
				EstimatedYield: "2-3 tonnes/hectare", MarketPrice: "₹80-120/kg", ExpectedRevenue: "₹3-5 lakhs/hectare"},
			{DistrictID: "madurai", CropID: "jasmine", Name: "Jasmine", Suitability: 75,
				EstimatedYield: "varies", MarketPrice: "on request", ExpectedRevenue: "unknown"},
		},
		steps: []models.CultivationStep{
			{ID: "banana/1", CropID: "banana", StepNumber: 1, StageName: "Land preparation", DurationDays: 15},
			{ID: "banana/2", CropID: "banana", StepNumber: 2, StageName: "Planting", DurationDays: 7},
		},
	}
}

func setupTestRouter(repo repository.CatalogReader) (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(repo, internalgrpc.NewBroadcaster())
	handler.RegisterRoutes(router)
	return router, handler
}

func do(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse response: %v (%s)", err, w.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	resp := decode[map[string]any](t, w)
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
}

func TestHealth_DegradedUntilCatalogReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(coimbatore(), nil)
	h.SetSyncStatus(fakeSync{last: &models.CatalogEvent{Kind: models.CatalogEventFailed, Error: "connection refused"}})
	h.RegisterRoutes(router)

	resp := decode[map[string]any](t, do(router, "GET", "/health", nil))
	if resp["status"] != "degraded" {
		t.Errorf("expected status degraded, got %v", resp["status"])
	}
	if resp["catalog_ready"] != false {
		t.Errorf("expected catalog_ready false, got %v", resp["catalog_ready"])
	}
	last, _ := resp["last_sync"].(map[string]any)
	if last["kind"] != "FAILED" {
		t.Errorf("expected last sync FAILED, got %v", last["kind"])
	}
}

func TestListDistricts(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	resp := decode[struct {
		Districts []districtResponse `json:"districts"`
	}](t, do(router, "GET", "/api/districts", nil))

	if len(resp.Districts) != 2 {
		t.Fatalf("expected 2 districts, got %d", len(resp.Districts))
	}
	if resp.Districts[0].Name != "Coimbatore" {
		t.Errorf("expected Coimbatore first, got %s", resp.Districts[0].Name)
	}
}

func TestListDistricts_RepositoryErrorIsInternal(t *testing.T) {
	repo := coimbatore()
	repo.err = errors.New("disk I/O error")
	router, _ := setupTestRouter(repo)

	w := do(router, "GET", "/api/districts", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if resp := decode[map[string]string](t, w); resp["error"] != "internal error" {
		t.Errorf("expected internal error body, got %q", resp["error"])
	}
}

type recommendationsResponse struct {
	Sort  string             `json:"sort"`
	Crops []baselineResponse `json:"crops"`
}

func names(crops []baselineResponse) []string {
	out := make([]string, len(crops))
	for i, c := range crops {
		out[i] = c.Name
	}
	return out
}

func TestRecommendations_Sorting(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Banana", "Tomato", "Chilli"}},
		{"?sort=score&limit=2", []string{"Banana", "Tomato"}},
		{"?sort=suitability", []string{"Banana", "Chilli", "Tomato"}},
		{"?sort=suitability&min_suitability=89", []string{"Banana", "Chilli"}},
	}
	for _, tt := range tests {
		w := do(router, "GET", "/api/districts/Coimbatore/recommendations"+tt.query, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected status 200, got %d", tt.query, w.Code)
		}
		got := names(decode[recommendationsResponse](t, w).Crops)
		if !slices.Equal(got, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.query, tt.want, got)
		}
	}
}

func TestRecommendations_Errors(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	tests := []struct {
		path string
		code int
	}{
		{"/api/districts/atlantis/recommendations", http.StatusNotFound},
		{"/api/districts/coimbatore/recommendations?limit=0", http.StatusBadRequest},
		{"/api/districts/coimbatore/recommendations?limit=abc", http.StatusBadRequest},
		{"/api/districts/coimbatore/recommendations?min_suitability=101", http.StatusBadRequest},
		{"/api/districts/coimbatore/recommendations?sort=price", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := do(router, "GET", tt.path, nil); w.Code != tt.code {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.code, w.Code)
		}
	}
}

func TestCropDetail(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "GET", "/api/districts/coimbatore/crops/banana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := decode[cropDetailResponse](t, w)
	if resp.Baseline.Name != "Banana" {
		t.Errorf("expected Banana, got %s", resp.Baseline.Name)
	}
	if len(resp.Steps) != 2 || resp.Steps[1].Stage != "Planting" {
		t.Errorf("unexpected steps: %+v", resp.Steps)
	}
	if resp.Conditions != estimator.DefaultConditions() {
		t.Errorf("expected default conditions, got %+v", resp.Conditions)
	}
	if resp.Inputs.Fertilizer != estimator.FertilizerMedium {
		t.Errorf("expected medium fertilizer default, got %v", resp.Inputs.Fertilizer)
	}
}

func TestCropDetail_UnknownCrop(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	if w := do(router, "GET", "/api/districts/coimbatore/crops/jasmine", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestPredict_DefaultsOverlay(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/predict", map[string]any{"district": "coimbatore", "crop": "Banana", "soil_ph": 5.3})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	p := decode[estimator.Prediction](t, w)
	if p.Conditions.Rainfall != 700 || p.Conditions.Temperature != 25 {
		t.Errorf("expected default rainfall and temperature, got %+v", p.Conditions)
	}
	if p.AdjustedYield != 45 || p.Status != estimator.StatusGood {
		t.Errorf("expected 45 t/ha good conditions, got %v %s", p.AdjustedYield, p.Status)
	}
}

func TestPredict_Errors(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{"missing crop", map[string]any{"district": "coimbatore"}, http.StatusBadRequest},
		{"out of domain", map[string]any{"district": "coimbatore", "crop": "banana", "temperature": 50}, http.StatusBadRequest},
		{"unknown soil", map[string]any{"district": "coimbatore", "crop": "banana", "soil_type": "peat"}, http.StatusBadRequest},
		{"unknown crop", map[string]any{"district": "coimbatore", "crop": "saffron"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := do(router, "POST", "/api/predict", tt.body); w.Code != tt.code {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.code, w.Code)
		}
	}
}

func TestPredict_MalformedBaselineReturnsResult(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/predict", map[string]any{"district": "madurai", "crop": "jasmine"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	resp := decode[struct {
		Error  string               `json:"error"`
		Result estimator.Prediction `json:"result"`
	}](t, w)
	if resp.Error == "" {
		t.Error("expected an error message")
	}
	if resp.Result.Crop != "Jasmine" || resp.Result.BaseYield != 0 {
		t.Errorf("expected zero-yield result for Jasmine, got %+v", resp.Result)
	}
}

func TestSimulate(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/simulate", map[string]any{
		"district": "coimbatore", "crop": "banana", "fertilizer": "high", "technology": "advanced",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	p := decode[estimator.Projection](t, w)
	if p.ProjectedYield != 69 {
		t.Errorf("expected 69 t/ha, got %v", p.ProjectedYield)
	}
	if p.Costs.Total != 5000+40000+30000+20000 {
		t.Errorf("unexpected total cost %v", p.Costs.Total)
	}
}

func TestSimulate_UnknownLevel(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/simulate", map[string]any{"district": "coimbatore", "crop": "banana", "fertilizer": "extreme"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSweep(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "GET", "/api/districts/coimbatore/crops/tomato/sweep/rainfall?temperature=32", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	s := decode[estimator.Sweep](t, w)
	if len(s.Points) != 24 {
		t.Errorf("expected 24 points, got %d", len(s.Points))
	}
	if s.Fixed.Temperature != 32 {
		t.Errorf("expected fixed temperature 32, got %v", s.Fixed.Temperature)
	}
}

func TestSweep_PNG(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "GET", "/api/districts/coimbatore/crops/tomato/sweep/temperature?format=png", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected a PNG signature")
	}
}

func TestSweep_BadInput(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	for _, path := range []string{
		"/api/districts/coimbatore/crops/tomato/sweep/humidity",
		"/api/districts/coimbatore/crops/tomato/sweep/rainfall?ph=acid",
		"/api/districts/coimbatore/crops/tomato/sweep/rainfall?ph=12",
	} {
		if w := do(router, "GET", path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestCompare(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/compare", map[string]any{"district": "coimbatore"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	result := decode[comparison.Result](t, w)
	if result.Best != "Tomato" {
		t.Errorf("expected Tomato to be best, got %s", result.Best)
	}
	if len(result.Ranking) != 3 {
		t.Errorf("expected 3 ranked crops, got %d", len(result.Ranking))
	}

	w = do(router, "POST", "/api/compare", map[string]any{"district": "coimbatore", "crops": []string{"banana", "chilli"}})
	result = decode[comparison.Result](t, w)
	if result.Best != "Banana" || len(result.Ranking) != 2 {
		t.Errorf("expected Banana best of 2, got %s of %d", result.Best, len(result.Ranking))
	}
}

func TestCompare_UnknownCrop(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/compare", map[string]any{"district": "coimbatore", "crops": []string{"banana", "saffron"}})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestReport(t *testing.T) {
	router, _ := setupTestRouter(coimbatore())

	w := do(router, "POST", "/api/report", map[string]any{
		"district": "coimbatore", "crop": "banana", "inputs": map[string]any{"rainfall": 900},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != report.ContentType {
		t.Errorf("unexpected content type %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "banana-outlook.xlsx") {
		t.Errorf("unexpected content disposition %s", cd)
	}
	// xlsx is a zip archive
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("expected a zip signature")
	}
}

func TestEvents_StreamsCatalogEvents(t *testing.T) {
	router, h := setupTestRouter(coimbatore())
	server := httptest.NewServer(router)
	defer server.Close()

	go func() {
		for h.broadcaster.SubscriberCount() == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		h.broadcaster.Broadcast(&models.CatalogEvent{ID: "e1", Kind: models.CatalogEventChanged, Source: "rest", Changed: 3})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected text/event-stream, got %s", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	var event, data string
	for data == "" && sc.Scan() {
		line := sc.Text()
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			event = v
		}
		if v, ok := strings.CutPrefix(line, "data:"); ok {
			data = v
		}
	}
	if event != "CHANGED" {
		t.Errorf("expected CHANGED event, got %q", event)
	}
	if !strings.Contains(data, `"changed":3`) {
		t.Errorf("unexpected event data %s", data)
	}
}
