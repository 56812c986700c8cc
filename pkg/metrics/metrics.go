package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 进程内全部 Prometheus 指标
// 方法均为 nil 安全，测试中可直接传 nil
type Metrics struct {
	registry *prometheus.Registry

	HTTPInFlight        prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	assignments      *prometheus.CounterVec
	storeFailures    *prometheus.CounterVec
	coverageShortage *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// New 创建并注册指标（独立 Registry，避免重复注册到全局）
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_assignments_total",
			Help: "Duty assignments by mode (single, block, correction).",
		}, []string{"mode"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_store_write_failures_total",
			Help: "Record store writes that aborted an assignment.",
		}, []string{"op"}),
		coverageShortage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_coverage_shortages_total",
			Help: "Day/shift pairs found below the minimum staff.",
		}, []string{"shift"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_snapshot_cache_lookups_total",
			Help: "Snapshot cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPInFlight, m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.assignments, m.storeFailures, m.coverageShortage, m.cacheLookups,
	)
	return m
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 底层 Registry（测试读取指标用）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAssignment 记录一次排班
func (m *Metrics) ObserveAssignment(mode string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(mode).Inc()
}

// ObserveStoreFailure 记录一次中途失败的写入
func (m *Metrics) ObserveStoreFailure(op string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(op).Inc()
}

// ObserveShortage 记录未达标的班次
func (m *Metrics) ObserveShortage(shift string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.coverageShortage.WithLabelValues(shift).Add(float64(n))
}

// ObserveCacheLookup 记录快照缓存查询结果
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
