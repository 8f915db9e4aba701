package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-graph-analytics/internal/linkpredict"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/apierr"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

// Predictor is the slice of linkpredict.Orchestrator the handlers need.
type Predictor interface {
	PredictLinks(ctx context.Context, topN int, threshold float64) (*linkpredict.JobResult, error)
	Capabilities(ctx context.Context) (linkpredict.CapabilitySnapshot, error)
	RefreshCapabilities(ctx context.Context) (linkpredict.CapabilitySnapshot, error)
}

type LinkPredictionOptions struct {
	DefaultTopN      int
	DefaultThreshold float64
	MaxTopN          int
	// CacheTTL of 0 disables the result cache.
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

type LinkPredictionHandler struct {
	log       *logger.Logger
	predictor Predictor
	cache     linkpredict.JSONStore
	opts      LinkPredictionOptions
}

// NewLinkPredictionHandler wires the handler; cache may be nil.
func NewLinkPredictionHandler(log *logger.Logger, predictor Predictor, cache linkpredict.JSONStore, opts LinkPredictionOptions) *LinkPredictionHandler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = 20
	}
	if opts.MaxTopN <= 0 {
		opts.MaxTopN = 1000
	}
	return &LinkPredictionHandler{
		log:       log.With("handler", "LinkPredictionHandler"),
		predictor: predictor,
		cache:     cache,
		opts:      opts,
	}
}

type linkPredictionResponse struct {
	Predictions []linkpredict.PredictionRecord `json:"predictions"`
	Count       int                            `json:"count"`
	Path        linkpredict.ExecutionPath      `json:"path"`
	ModelReused bool                           `json:"model_reused"`
	TookMS      int64                          `json:"took_ms"`
	Cached      bool                           `json:"cached"`
}

// GET /v1/analytics/link-predictions?top_n=&threshold=
func (h *LinkPredictionHandler) PredictLinks(c *gin.Context) {
	topN, threshold, err := h.parseQuery(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	ctx := c.Request.Context()
	key := cacheKey(topN, threshold)
	lookupStart := time.Now()
	if resp, ok := h.cached(ctx, key); ok {
		resp.Cached = true
		resp.TookMS = time.Since(lookupStart).Milliseconds()
		h.setCacheControl(c)
		RespondOK(c, resp)
		return
	}

	if h.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RequestTimeout)
		defer cancel()
	}
	res, err := h.predictor.PredictLinks(ctx, topN, threshold)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := linkPredictionResponse{
		Predictions: res.Predictions,
		Count:       len(res.Predictions),
		Path:        res.Path,
		ModelReused: res.ModelReused,
		TookMS:      res.Duration.Milliseconds(),
	}
	if resp.Predictions == nil {
		resp.Predictions = []linkpredict.PredictionRecord{}
	}
	h.store(ctx, key, resp)
	h.setCacheControl(c)
	RespondOK(c, resp)
}

// GET /v1/analytics/capabilities
func (h *LinkPredictionHandler) GetCapabilities(c *gin.Context) {
	snap, err := h.predictor.Capabilities(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"capabilities": snap})
}

// POST /v1/analytics/capabilities/refresh
func (h *LinkPredictionHandler) RefreshCapabilities(c *gin.Context) {
	snap, err := h.predictor.RefreshCapabilities(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	h.log.Info("capabilities refreshed", append([]interface{}{
		"modern", snap.SupportsModernPipeline,
		"legacy", snap.SupportsLegacyTrain,
	}, ctxutil.LogFields(c.Request.Context())...)...)
	RespondOK(c, gin.H{"capabilities": snap})
}

func (h *LinkPredictionHandler) parseQuery(c *gin.Context) (int, float64, error) {
	topN := h.opts.DefaultTopN
	if raw := strings.TrimSpace(c.Query("top_n")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, badRequest(fmt.Errorf("top_n must be an integer: %q", raw))
		}
		topN = n
	}
	if topN < 1 || topN > h.opts.MaxTopN {
		return 0, 0, badRequest(fmt.Errorf("top_n must be within 1..%d (got %d)", h.opts.MaxTopN, topN))
	}

	threshold := h.opts.DefaultThreshold
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, badRequest(fmt.Errorf("threshold must be a number: %q", raw))
		}
		threshold = f
	}
	if err := linkpredict.ValidateRequest(topN, threshold); err != nil {
		return 0, 0, badRequest(err)
	}
	return topN, threshold, nil
}

func badRequest(err error) error {
	return apierr.New(http.StatusBadRequest, "invalid_argument", err)
}

func cacheKey(topN int, threshold float64) string {
	return "linkpred:" + strconv.Itoa(topN) + ":" + strconv.FormatFloat(threshold, 'f', -1, 64)
}

func (h *LinkPredictionHandler) cacheEnabled() bool {
	return h.cache != nil && h.opts.CacheTTL > 0
}

func (h *LinkPredictionHandler) cached(ctx context.Context, key string) (linkPredictionResponse, bool) {
	var resp linkPredictionResponse
	if !h.cacheEnabled() {
		return resp, false
	}
	ok, err := h.cache.GetJSON(ctx, key, &resp)
	if err != nil {
		h.log.Warn("result cache read failed (continuing)", "key", key, "error", err)
		return resp, false
	}
	return resp, ok
}

func (h *LinkPredictionHandler) store(ctx context.Context, key string, resp linkPredictionResponse) {
	if !h.cacheEnabled() {
		return
	}
	if err := h.cache.SetJSON(context.WithoutCancel(ctx), key, resp, h.opts.CacheTTL); err != nil {
		h.log.Warn("result cache write failed (continuing)", "key", key, "error", err)
	}
}

func (h *LinkPredictionHandler) setCacheControl(c *gin.Context) {
	if h.cacheEnabled() {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(h.opts.CacheTTL.Seconds())))
		return
	}
	c.Header("Cache-Control", "no-store")
}
