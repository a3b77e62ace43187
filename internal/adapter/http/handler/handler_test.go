package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/langdetect/internal/engine/langs"
	"github.com/crimson-sun/langdetect/internal/metrics"
	"github.com/crimson-sun/langdetect/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDetector struct {
	result   model.DetectionResult
	batch    []model.BatchResult
	err      error
	calls    int
	gotText  string
	gotBatch []string
}

func (f *fakeDetector) Detect(_ context.Context, text string) (model.DetectionResult, error) {
	f.calls++
	f.gotText = text
	return f.result, f.err
}

func (f *fakeDetector) DetectBatch(_ context.Context, texts []string) ([]model.BatchResult, error) {
	f.calls++
	f.gotBatch = texts
	return f.batch, f.err
}

func (f *fakeDetector) Labels() []string { return []string{"eng", "fra", "deu"} }

func (f *fakeDetector) Names() *langs.Names {
	return langs.New(map[string]string{"eng": "English", "fra": "French"})
}

type fakeCache struct {
	entries map[string]model.DetectionResult
	getErr  error
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]model.DetectionResult{}}
}

func (f *fakeCache) Get(_ context.Context, text string) (model.DetectionResult, bool, error) {
	if f.getErr != nil {
		return model.DetectionResult{}, false, f.getErr
	}
	res, ok := f.entries[text]
	return res, ok, nil
}

func (f *fakeCache) Set(_ context.Context, text string, res model.DetectionResult) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[text] = res
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return f.getErr }

func serve(h gin.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Handle(method, "/test", h)

	req := httptest.NewRequest(method, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var french = model.DetectionResult{LangName: "French", Lang: "fra", Proba: 0.7}

func TestInfo(t *testing.T) {
	h := NewDetectHandler(&fakeDetector{})

	w := serve(h.Info, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"eng":"English","fra":"French"}`, w.Body.String())
}

func TestDetect(t *testing.T) {
	t.Run("returns detection result", func(t *testing.T) {
		det := &fakeDetector{result: french}
		h := NewDetectHandler(det)

		w := serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"lang_name":"French","lang":"fra","proba":0.7}`, w.Body.String())
		assert.Equal(t, "Bonjour", det.gotText)
	})

	t.Run("rejects missing or empty text", func(t *testing.T) {
		for _, body := range []string{``, `{}`, `{"text":""}`} {
			det := &fakeDetector{result: french}
			w := serve(NewDetectHandler(det).Detect, http.MethodPost, body)

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
			assert.JSONEq(t, `{"error":"text is required"}`, w.Body.String())
			assert.Zero(t, det.calls)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		w := serve(NewDetectHandler(&fakeDetector{}).Detect, http.MethodPost, `{"text":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
	})

	t.Run("rejects body over the size limit", func(t *testing.T) {
		det := &fakeDetector{result: french}
		h := NewDetectHandler(det, WithMaxBody(32))

		w := serve(h.Detect, http.MethodPost, `{"text":"`+strings.Repeat("a", 64)+`"}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error":"request body too large"}`, w.Body.String())
		assert.Zero(t, det.calls)
	})

	t.Run("accepts body within the size limit", func(t *testing.T) {
		det := &fakeDetector{result: french}
		h := NewDetectHandler(det, WithMaxBody(32))

		w := serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("maps detector failure to 500", func(t *testing.T) {
		det := &fakeDetector{err: errors.New("onnx: run failed")}

		w := serve(NewDetectHandler(det).Detect, http.MethodPost, `{"text":"hi"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})

	t.Run("records detection metric", func(t *testing.T) {
		m := metrics.New(nil)
		h := NewDetectHandler(&fakeDetector{result: french}, WithMetrics(m))

		serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.Detections.WithLabelValues("fra")))
	})
}

func TestDetectCache(t *testing.T) {
	t.Run("miss stores and hit skips detector", func(t *testing.T) {
		det := &fakeDetector{result: french}
		c := newFakeCache()
		m := metrics.New(nil)
		h := NewDetectHandler(det, WithCache(c), WithMetrics(m))

		first := serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)
		second := serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, 1, det.calls)
		assert.Equal(t, 1, c.sets)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheMiss)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheHit)))
	})

	t.Run("cache failures are bypassed", func(t *testing.T) {
		det := &fakeDetector{result: french}
		c := newFakeCache()
		c.getErr = errors.New("connection refused")
		c.setErr = errors.New("connection refused")
		m := metrics.New(nil)
		h := NewDetectHandler(det, WithCache(c), WithMetrics(m))

		w := serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, det.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.CacheError)))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		c := newFakeCache()
		h := NewDetectHandler(&fakeDetector{err: errors.New("boom")}, WithCache(c))

		serve(h.Detect, http.MethodPost, `{"text":"Bonjour"}`)

		assert.Zero(t, c.sets)
	})
}

func TestDetectBatch(t *testing.T) {
	t.Run("returns results in order", func(t *testing.T) {
		det := &fakeDetector{batch: []model.BatchResult{
			{Lang: "eng", Proba: 0.9},
			{Lang: "fra", Proba: 0.8},
		}}
		h := NewDetectHandler(det)

		w := serve(h.DetectBatch, http.MethodPost, `{"texts":["Hello","Bonjour"]}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, det.batch, resp.Results)
		assert.Equal(t, []string{"Hello", "Bonjour"}, det.gotBatch)
	})

	t.Run("rejects empty list", func(t *testing.T) {
		for _, body := range []string{``, `{}`, `{"texts":[]}`} {
			det := &fakeDetector{}
			w := serve(NewDetectHandler(det).DetectBatch, http.MethodPost, body)

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
			assert.JSONEq(t, `{"error":"texts is required"}`, w.Body.String())
			assert.Zero(t, det.calls)
		}
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		det := &fakeDetector{}
		h := NewDetectHandler(det, WithMaxBatch(2))

		w := serve(h.DetectBatch, http.MethodPost, `{"texts":["a","b","c"]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"too many texts"}`, w.Body.String())
		assert.Zero(t, det.calls)
	})

	t.Run("rejects body over the size limit", func(t *testing.T) {
		det := &fakeDetector{}
		h := NewDetectHandler(det, WithMaxBody(16))

		w := serve(h.DetectBatch, http.MethodPost, `{"texts":["`+strings.Repeat("b", 32)+`"]}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Zero(t, det.calls)
	})

	t.Run("passes invalid input reason through", func(t *testing.T) {
		det := &fakeDetector{err: &model.InvalidInputError{Reason: "texts is required"}}

		w := serve(NewDetectHandler(det).DetectBatch, http.MethodPost, `{"texts":["x"]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"texts is required"}`, w.Body.String())
	})

	t.Run("counts every detection", func(t *testing.T) {
		m := metrics.New(nil)
		det := &fakeDetector{batch: []model.BatchResult{{Lang: "eng"}, {Lang: "eng"}}}
		h := NewDetectHandler(det, WithMetrics(m))

		serve(h.DetectBatch, http.MethodPost, `{"texts":["a","b"]}`)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.Detections.WithLabelValues("eng")))
	})
}

func TestMapError(t *testing.T) {
	status, msg := MapError(&model.InvalidInputError{Reason: "text is required"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "text is required", msg)

	status, msg = MapError(model.Configf("rank", "got %d scores", 3))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", msg)
}

func TestHealth(t *testing.T) {
	t.Run("reports label count", func(t *testing.T) {
		h := NewHealthHandler(&fakeDetector{}, nil)

		w := serve(h.Health, http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","labels":3}`, w.Body.String())
	})

	t.Run("reports cache state without failing", func(t *testing.T) {
		c := newFakeCache()
		c.getErr = errors.New("down")
		h := NewHealthHandler(&fakeDetector{}, c)

		w := serve(h.Health, http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","labels":3,"cache":"unavailable"}`, w.Body.String())
	})
}
