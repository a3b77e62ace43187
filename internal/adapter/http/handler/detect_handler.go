package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/engine/langs"
	"github.com/crimson-sun/langdetect/internal/metrics"
	"github.com/crimson-sun/langdetect/internal/model"
)

// Limits applied when none are configured.
const (
	DefaultMaxBatch = 256
	DefaultMaxBody  = 1 << 20
)

// Detector is the detection capability the handlers consume.
type Detector interface {
	Detect(ctx context.Context, text string) (model.DetectionResult, error)
	DetectBatch(ctx context.Context, texts []string) ([]model.BatchResult, error)
	Labels() []string
	Names() *langs.Names
}

// ResultCache caches single-text detection results.
type ResultCache interface {
	Get(ctx context.Context, text string) (model.DetectionResult, bool, error)
	Set(ctx context.Context, text string, res model.DetectionResult) error
}

// DetectRequest is the body of POST /detect.
type DetectRequest struct {
	Text string `json:"text"`
}

// BatchRequest is the body of POST /detect/batch.
type BatchRequest struct {
	Texts []string `json:"texts"`
}

// BatchResponse is the body returned by POST /detect/batch.
type BatchResponse struct {
	Results []model.BatchResult `json:"results"`
}

// DetectHandler serves the detection endpoints.
type DetectHandler struct {
	detector Detector
	cache    ResultCache
	metrics  *metrics.Metrics
	log      *zap.Logger
	maxBatch int
	maxBody  int64
}

// Option configures a DetectHandler.
type Option func(*DetectHandler)

// WithCache enables result caching for single-text detection.
func WithCache(c ResultCache) Option {
	return func(h *DetectHandler) { h.cache = c }
}

// WithMetrics records detections and cache outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *DetectHandler) { h.metrics = m }
}

// WithLogger sets the handler logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *DetectHandler) { h.log = l }
}

// WithMaxBatch limits the number of texts accepted by the batch endpoint.
func WithMaxBatch(n int) Option {
	return func(h *DetectHandler) {
		if n > 0 {
			h.maxBatch = n
		}
	}
}

// WithMaxBody limits the size of request bodies in bytes.
func WithMaxBody(n int64) Option {
	return func(h *DetectHandler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewDetectHandler creates a handler around d.
func NewDetectHandler(d Detector, opts ...Option) *DetectHandler {
	h := &DetectHandler{
		detector: d,
		log:      zap.NewNop(),
		maxBatch: DefaultMaxBatch,
		maxBody:  DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Info handles GET /, /detect/info and /api/v1/.
func (h *DetectHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.detector.Names().Map())
}

// Detect handles POST /detect.
func (h *DetectHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Text == "" {
		respondError(c, http.StatusBadRequest, "text is required")
		return
	}

	ctx := c.Request.Context()
	if res, ok := h.cached(ctx, req.Text); ok {
		c.JSON(http.StatusOK, res)
		return
	}

	res, err := h.detector.Detect(ctx, req.Text)
	if err != nil {
		handleDetectError(c, err)
		return
	}
	h.observe(res.Lang)
	h.store(ctx, req.Text, res)

	c.JSON(http.StatusOK, res)
}

// DetectBatch handles POST /detect/batch.
func (h *DetectHandler) DetectBatch(c *gin.Context) {
	var req BatchRequest
	if !h.bind(c, &req) {
		return
	}
	if len(req.Texts) == 0 {
		respondError(c, http.StatusBadRequest, "texts is required")
		return
	}
	if len(req.Texts) > h.maxBatch {
		respondError(c, http.StatusBadRequest, "too many texts")
		return
	}

	results, err := h.detector.DetectBatch(c.Request.Context(), req.Texts)
	if err != nil {
		handleDetectError(c, err)
		return
	}
	for _, r := range results {
		h.observe(r.Lang)
	}

	c.JSON(http.StatusOK, BatchResponse{Results: results})
}

// bind decodes the JSON body into dest and writes the error response when
// it cannot. An empty body leaves dest at its zero value so it is reported
// as a missing field.
func (h *DetectHandler) bind(c *gin.Context, dest any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	err := c.ShouldBindJSON(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	respondError(c, http.StatusBadRequest, "invalid request body")
	return false
}

func (h *DetectHandler) cached(ctx context.Context, text string) (model.DetectionResult, bool) {
	if h.cache == nil {
		return model.DetectionResult{}, false
	}
	res, ok, err := h.cache.Get(ctx, text)
	switch {
	case err != nil:
		h.log.Warn("cache lookup failed", zap.Error(err))
		h.observeCache(metrics.CacheError)
	case ok:
		h.observeCache(metrics.CacheHit)
	default:
		h.observeCache(metrics.CacheMiss)
	}
	return res, ok && err == nil
}

func (h *DetectHandler) store(ctx context.Context, text string, res model.DetectionResult) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, text, res); err != nil {
		h.log.Warn("cache store failed", zap.Error(err))
	}
}

func (h *DetectHandler) observe(lang string) {
	if h.metrics != nil {
		h.metrics.ObserveDetection(lang)
	}
}

func (h *DetectHandler) observeCache(result string) {
	if h.metrics != nil {
		h.metrics.ObserveCache(result)
	}
}
