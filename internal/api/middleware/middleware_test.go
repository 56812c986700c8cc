package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"escalafon/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeWindow struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeWindow) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/roster/assignments", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func post(r *gin.Engine) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/roster/assignments", nil))
	return w.Code
}

func TestRateLimit_RedisDenies(t *testing.T) {
	backend := &fakeWindow{allowed: false}
	r := newEngine(RateLimit(backend, 10, time.Minute, zap.NewNop()))

	if code := post(r); code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", code)
	}
	if backend.calls != 1 {
		t.Errorf("应调用一次 Redis，实际 %d", backend.calls)
	}
}

func TestRateLimit_FallsBackToLocal(t *testing.T) {
	backend := &fakeWindow{err: errors.New("redis down")}
	r := newEngine(RateLimit(backend, 2, time.Hour, zap.NewNop()))

	if code := post(r); code != http.StatusCreated {
		t.Fatalf("第 1 次应放行，实际 %d", code)
	}
	if code := post(r); code != http.StatusCreated {
		t.Fatalf("第 2 次应放行，实际 %d", code)
	}
	if code := post(r); code != http.StatusTooManyRequests {
		t.Errorf("第 3 次应被进程内限流拦截，实际 %d", code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(RateLimit(nil, 0, time.Minute, zap.NewNop()))
	for i := 0; i < 5; i++ {
		if code := post(r); code != http.StatusCreated {
			t.Fatalf("limit=0 不应限流，实际 %d", code)
		}
	}
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/dependencies/:id/roster", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dependencies/dep-1/roster", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/dependencies/:id/roster", "200"))
	if got != 1 {
		t.Errorf("expected 1 request recorded, got %v", got)
	}
	if v := testutil.ToFloat64(m.HTTPInFlight); v != 0 {
		t.Errorf("请求结束后 in-flight 应归零，实际 %v", v)
	}
}

func TestBodyLimit_RejectsDeclaredLength(t *testing.T) {
	r := newEngine(BodyLimit(8))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/roster/assignments", strings.NewReader(strings.Repeat("x", 64))))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	r := newEngine(RequestID())
	req := httptest.NewRequest("POST", "/roster/assignments", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/roster/assignments", nil))
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("应生成 UUID，实际 %q", got)
	}
}

func TestLogger_RouteOperatorAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/dependencies/:id/roster", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/roster/assignments", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/dependencies/dep-1/roster?days=7", nil)
	req.Header.Set(OperatorHeader, " op-7 ")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/roster/assignments", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条访问日志，实际 %d", len(entries))
	}

	first := entries[0]
	if first.LoggerName != "access" || first.Level != zapcore.InfoLevel {
		t.Errorf("logger=%q level=%s", first.LoggerName, first.Level)
	}
	fields := first.ContextMap()
	if fields["route"] != "/dependencies/:id/roster" || fields["operator_id"] != "op-7" {
		t.Errorf("字段不符: %v", fields)
	}
	if rid, _ := fields["request_id"].(string); rid == "" {
		t.Error("应记录 request_id")
	}

	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("503 应记为 error，实际 %s", entries[1].Level)
	}
	if _, ok := entries[1].ContextMap()["operator_id"]; ok {
		t.Error("未携带操作人时不应记录 operator_id")
	}
	if entries[2].Level != zapcore.DebugLevel {
		t.Errorf("/health 应记为 debug，实际 %s", entries[2].Level)
	}
}

func TestCORS_AllowsOperatorHeaderForKnownOrigin(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173/"}))

	req := httptest.NewRequest(http.MethodOptions, "/roster/assignments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检应返回 204，实际 %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), OperatorHeader) {
		t.Errorf("应允许 %s: %q", OperatorHeader, w.Header().Get("Access-Control-Allow-Headers"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("应暴露 Content-Disposition")
	}

	req = httptest.NewRequest(http.MethodOptions, "/roster/assignments", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("未知来源不应返回 Allow-Origin")
	}
}
