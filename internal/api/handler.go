package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-crop-advisor/internal/chart"
	"github.com/mr1hm/go-crop-advisor/internal/comparison"
	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	internalgrpc "github.com/mr1hm/go-crop-advisor/internal/grpc"
	"github.com/mr1hm/go-crop-advisor/internal/metrics"
	"github.com/mr1hm/go-crop-advisor/internal/models"
	"github.com/mr1hm/go-crop-advisor/internal/report"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 100
)

// SyncStatus reports the state of the catalog mirror.
type SyncStatus interface {
	Ready() bool
	LastEvent() *models.CatalogEvent
}

type Handler struct {
	repo        repository.CatalogReader
	broadcaster *internalgrpc.Broadcaster
	metrics     *metrics.Metrics
	sync        SyncStatus
}

func NewHandler(repo repository.CatalogReader, broadcaster *internalgrpc.Broadcaster) *Handler {
	return &Handler{
		repo:        repo,
		broadcaster: broadcaster,
	}
}

func (h *Handler) SetMetrics(m *metrics.Metrics) { h.metrics = m }

func (h *Handler) SetSyncStatus(s SyncStatus) { h.sync = s }

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/districts", h.listDistricts)
	api.GET("/districts/:district/recommendations", h.recommendations)
	api.GET("/districts/:district/crops/:crop", h.cropDetail)
	api.GET("/districts/:district/crops/:crop/sweep/:param", h.sweep)
	api.POST("/predict", h.predict)
	api.POST("/simulate", h.simulate)
	api.POST("/compare", h.compare)
	api.POST("/report", h.report)
	api.GET("/events", h.events)
}

func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": "ok"}

	if h.sync != nil {
		resp["catalog_ready"] = h.sync.Ready()
		if !h.sync.Ready() {
			resp["status"] = "degraded"
		}
		if e := h.sync.LastEvent(); e != nil {
			resp["last_sync"] = toEvent(e)
		}
	}
	if h.broadcaster != nil {
		resp["event_subscribers"] = h.broadcaster.SubscriberCount()
		resp["events_dropped"] = h.broadcaster.Dropped()
	}
	if counts, err := h.repo.Counts(c.Request.Context()); err == nil {
		resp["catalog"] = counts
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listDistricts(c *gin.Context) {
	districts, err := h.repo.ListDistricts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"districts": toDistricts(districts)})
}

func (h *Handler) recommendations(c *gin.Context) {
	ctx := c.Request.Context()

	district, err := h.repo.GetDistrict(ctx, c.Param("district"))
	if err != nil {
		writeError(c, err)
		return
	}

	limit := defaultRecommendations
	if l := c.Query("limit"); l != "" {
		lim, err := strconv.Atoi(l)
		if err != nil || lim < 1 || lim > maxRecommendations {
			writeError(c, badRequest(fmt.Errorf("limit must be between 1 and %d", maxRecommendations)))
			return
		}
		limit = lim
	}

	filter := repository.Filter{District: district.ID}
	if m := c.Query("min_suitability"); m != "" {
		minSuit, err := strconv.Atoi(m)
		if err != nil || minSuit < 0 || minSuit > 100 {
			writeError(c, badRequest(fmt.Errorf("min_suitability must be between 0 and 100")))
			return
		}
		filter.MinSuitability = minSuit
	}

	sortBy := strings.ToLower(c.DefaultQuery("sort", "score"))
	switch sortBy {
	case "suitability":
		filter.Limit = limit
	case "score":
	default:
		writeError(c, badRequest(fmt.Errorf("sort must be score or suitability")))
		return
	}

	baselines, err := h.repo.ListBaselines(ctx, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if sortBy == "score" {
		ranked := estimator.TopPicks(baselines, limit)
		baselines = baselines[:0]
		for _, r := range ranked {
			baselines = append(baselines, r.Baseline)
		}
	}

	crops := make([]baselineResponse, 0, len(baselines))
	for _, b := range baselines {
		crops = append(crops, toBaseline(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"district": toDistricts([]models.District{*district})[0],
		"sort":     sortBy,
		"crops":    crops,
	})
}

func (h *Handler) cropDetail(c *gin.Context) {
	ctx := c.Request.Context()

	b, err := h.repo.GetBaseline(ctx, c.Param("district"), c.Param("crop"))
	if err != nil {
		writeError(c, err)
		return
	}
	steps, err := h.repo.ListCultivationSteps(ctx, b.CropID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cropDetailResponse{
		Baseline:   toBaseline(*b),
		Conditions: estimator.DefaultConditions(),
		Inputs:     estimator.DefaultInputs(),
		Domains: domainsResponse{
			ConditionsRainfall: estimator.ConditionsRainfallDomain,
			InputsRainfall:     estimator.InputsRainfallDomain,
			Temperature:        estimator.TemperatureDomain,
			SoilPH:             estimator.SoilPHDomain,
		},
		Steps: toSteps(steps),
	})
}

func (h *Handler) predict(c *gin.Context) {
	req := predictRequest{Conditions: estimator.DefaultConditions()}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}

	b, err := h.repo.GetBaseline(c.Request.Context(), req.District, req.Crop)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := estimator.Predict(*b, req.Conditions)
	h.metrics.Estimate("agronomic", err)
	respond(c, p, err)
}

func (h *Handler) simulate(c *gin.Context) {
	req := simulateRequest{Inputs: estimator.DefaultInputs()}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}

	b, err := h.repo.GetBaseline(c.Request.Context(), req.District, req.Crop)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := estimator.Simulate(*b, req.Inputs)
	h.metrics.Estimate("economic", err)
	respond(c, p, err)
}

func (h *Handler) sweep(c *gin.Context) {
	param, err := estimator.ParseSweepParameter(c.Param("param"))
	if err != nil {
		writeError(c, err)
		return
	}
	cond, err := conditionsFromQuery(c)
	if err != nil {
		writeError(c, badRequest(err))
		return
	}

	b, err := h.repo.GetBaseline(c.Request.Context(), c.Param("district"), c.Param("crop"))
	if err != nil {
		writeError(c, err)
		return
	}

	s, err := estimator.SweepYield(*b, cond, param)
	h.metrics.Estimate("sweep", err)
	if err != nil || c.Query("format") != "png" {
		respond(c, s, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderSweep(&buf, s); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// conditionsFromQuery overlays rainfall, temperature, ph and soil query
// parameters on the default conditions.
func conditionsFromQuery(c *gin.Context) (estimator.Conditions, error) {
	cond := estimator.DefaultConditions()

	floats := []struct {
		key string
		dst *float64
	}{
		{"rainfall", &cond.Rainfall},
		{"temperature", &cond.Temperature},
		{"ph", &cond.SoilPH},
	}
	for _, f := range floats {
		v := c.Query(f.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cond, fmt.Errorf("%s: %q is not a number", f.key, v)
		}
		*f.dst = parsed
	}

	if s := c.Query("soil"); s != "" {
		st, err := estimator.ParseSoilType(s)
		if err != nil {
			return cond, err
		}
		cond.SoilType = st
	}
	return cond, nil
}

func (h *Handler) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}

	baselines, err := h.comparisonSet(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := comparison.Compare(baselines)
	h.metrics.Estimate("comparison", err)
	respond(c, result, err)
}

func (h *Handler) comparisonSet(ctx context.Context, req compareRequest) ([]models.CropBaseline, error) {
	if len(req.Crops) == 0 {
		district, err := h.repo.GetDistrict(ctx, req.District)
		if err != nil {
			return nil, err
		}
		return h.repo.ListBaselines(ctx, repository.Filter{District: district.ID})
	}

	baselines := make([]models.CropBaseline, 0, len(req.Crops))
	for _, crop := range req.Crops {
		b, err := h.repo.GetBaseline(ctx, req.District, crop)
		if err != nil {
			return nil, err
		}
		baselines = append(baselines, *b)
	}
	return baselines, nil
}

func (h *Handler) report(c *gin.Context) {
	req := reportRequest{
		Conditions: estimator.DefaultConditions(),
		Inputs:     estimator.DefaultInputs(),
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}

	ctx := c.Request.Context()
	b, err := h.repo.GetBaseline(ctx, req.District, req.Crop)
	if err != nil {
		writeError(c, err)
		return
	}
	steps, err := h.repo.ListCultivationSteps(ctx, b.CropID)
	if err != nil {
		writeError(c, err)
		return
	}

	r := report.Request{
		District:   req.District,
		Baseline:   *b,
		Conditions: req.Conditions,
		Inputs:     req.Inputs,
		Steps:      steps,
	}
	var buf bytes.Buffer
	err = report.Write(&buf, r)
	h.metrics.Estimate("report", err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, r.Filename()))
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

// events streams catalog change events as server-sent events until the
// client goes away or the broadcaster closes.
func (h *Handler) events(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)
	h.metrics.SubscriberConnected()
	defer h.metrics.SubscriberDisconnected()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(e.Kind), toEvent(e))
			return true
		}
	})
}
