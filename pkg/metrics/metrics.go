package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса.
// Все методы безопасны для nil-получателя, поэтому при выключенных метриках можно передавать nil.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	AppointmentsCreated *prometheus.CounterVec
	ConflictsRejected   *prometheus.CounterVec
	QuotaRejections     *prometheus.CounterVec
	SlotsReturned       *prometheus.HistogramVec
}

// New регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном registry
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	ns := sanitize(serviceName)

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Open database connections",
		}, []string{"service"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Database connections in use",
		}, []string{"service"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Idle database connections",
		}, []string{"service"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}, []string{"service"}),
		AppointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "appointments_created_total",
			Help:      "Appointments persisted, split by kind (single, parent, child)",
		}, []string{"kind"}),
		ConflictsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "appointment_conflicts_total",
			Help:      "Scheduling attempts rejected because of an overlapping appointment",
		}, []string{"operation"}),
		QuotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "quota_rejections_total",
			Help:      "Operations rejected by plan limits",
		}, []string{"resource"}),
		SlotsReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "available_slots_returned",
			Help:      "Number of available slots returned per availability query",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
		}, []string{"grid"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.AppointmentsCreated,
		m.ConflictsRejected,
		m.QuotaRejections,
		m.SlotsReturned,
	)

	return m
}

func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) IncAppointmentsCreated(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AppointmentsCreated.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) IncConflict(operation string) {
	if m == nil {
		return
	}
	m.ConflictsRejected.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncQuotaRejection(resource string) {
	if m == nil {
		return
	}
	m.QuotaRejections.WithLabelValues(resource).Inc()
}

func (m *Metrics) ObserveSlots(grid string, count int) {
	if m == nil {
		return
	}
	m.SlotsReturned.WithLabelValues(grid).Observe(float64(count))
}

func sanitize(name string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(strings.ToLower(name))
}
