package sim

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/voxel-tanks/internal/entity"
	"github.com/annel0/voxel-tanks/internal/world"
)

// Metrics Prometheus-метрики симуляции.
//
// Метрики:
// * sim_tick_duration_seconds: histogram
// * sim_entities{kind}: gauge
// * sim_voxels, sim_projectiles, sim_loaded_chunks: gauge
// * sim_events_total{type}: counter
// * sim_kills_total: counter
type Metrics struct {
	tickDuration prometheus.Histogram
	entities     *prometheus.GaugeVec
	voxels       prometheus.Gauge
	projectiles  prometheus.Gauge
	chunks       prometheus.Gauge
	events       *prometheus.CounterVec
	kills        prometheus.Counter
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sim",
			Name:      "tick_duration_seconds",
			Help:      "Длительность тика симуляции.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.1},
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sim",
			Name:      "entities",
			Help:      "Число сущностей по вариантам.",
		}, []string{"kind"}),
		voxels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sim",
			Name:      "voxels",
			Help:      "Число вокселей в индексе.",
		}),
		projectiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sim",
			Name:      "projectiles",
			Help:      "Снаряды в полёте.",
		}),
		chunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sim",
			Name:      "loaded_chunks",
			Help:      "Загруженные чанки.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sim",
			Name:      "events_total",
			Help:      "События симуляции по типам.",
		}, []string{"type"}),
		kills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sim",
			Name:      "kills_total",
			Help:      "Враждебные юниты, уничтоженные игроком.",
		}),
	}
	reg.MustRegister(m.tickDuration, m.entities, m.voxels, m.projectiles, m.chunks, m.events, m.kills)
	return m
}

// observe снимает состояние мира после тика
func (m *Metrics) observe(w *World, seconds float64, events []world.Event) {
	m.tickDuration.Observe(seconds)
	for _, kind := range []entity.Kind{entity.KindPlayer, entity.KindHostile, entity.KindCivilian} {
		m.entities.WithLabelValues(kind.String()).Set(float64(w.entities.Count(kind)))
	}
	m.voxels.Set(float64(w.index.Len()))
	m.projectiles.Set(float64(len(w.projectiles)))
	m.chunks.Set(float64(len(w.index.LoadedChunks())))
	for _, ev := range events {
		m.events.WithLabelValues(ev.GetType().String()).Inc()
	}
}
