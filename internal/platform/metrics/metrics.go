package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio. Cada instancia tiene su propio
// registry, así los tests pueden crear varias sin chocar con el global.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	repoOpsTotal   *prometheus.CounterVec
	repoOpDuration *prometheus.HistogramVec
	petsStored     prometheus.Gauge
}

func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de requests HTTP procesadas",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		repoOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pets_repository_operations_total",
			Help: "Operaciones del repositorio de mascotas por resultado",
		}, []string{"op", "outcome"}), // outcome: ok|not_found|conflict|invalid|error

		repoOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pets_repository_operation_duration_seconds",
			Help:    "Duración de operaciones del repositorio de mascotas",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"op"}),

		petsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pets_stored",
			Help: "Cantidad de mascotas vistas en el último listado completo",
		}),
	}

	collectorsToRegister := []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.repoOpsTotal,
		m.repoOpDuration,
		m.petsStored,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range collectorsToRegister {
		if err := registerCollector(m.registry, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// Handler expone /metrics sobre el registry propio.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveRepoOp(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.repoOpsTotal.WithLabelValues(op, outcome).Inc()
	m.repoOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) SetPetsStored(n int) {
	if m == nil {
		return
	}
	m.petsStored.Set(float64(n))
}

// RepoOpsCounter se expone para assertions en tests.
func (m *Metrics) RepoOpsCounter(op, outcome string) prometheus.Counter {
	return m.repoOpsTotal.WithLabelValues(op, outcome)
}

func (m *Metrics) HTTPRequestsCounter(method, route string, status int) prometheus.Counter {
	return m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status))
}
