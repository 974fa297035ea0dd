// Package metrics registra os contadores e histogramas Prometheus do serviço,
// expostos em /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	catalogQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "govitrine_catalog_queries_total",
		Help: "Consultas ao catálogo por visão e ordenação.",
	}, []string{"view", "sort"})

	catalogQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "govitrine_catalog_query_duration_seconds",
		Help:    "Duração da consulta (filtro, ordenação e paginação) por visão.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"view"})

	catalogSnapshotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "govitrine_catalog_snapshot_loads_total",
		Help: "Cargas da coleção por visão e origem (cache, db, error).",
	}, []string{"view", "source"})

	cartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "govitrine_cart_operations_total",
		Help: "Operações de carrinho/wishlist por tipo, operação e resultado.",
	}, []string{"kind", "operation", "result"})

	cartPersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "govitrine_cart_persist_failures_total",
		Help: "Falhas ao persistir a fotografia do carrinho/wishlist.",
	}, []string{"kind"})
)

// ObserveQuery registra uma consulta concluída.
func ObserveQuery(view, sort string, elapsed time.Duration) {
	catalogQueries.WithLabelValues(view, sort).Inc()
	catalogQueryDuration.WithLabelValues(view).Observe(elapsed.Seconds())
}

// SnapshotLoaded registra a origem da coleção usada na consulta.
func SnapshotLoaded(view, source string) {
	catalogSnapshotLoads.WithLabelValues(view, source).Inc()
}

// CartOperation registra o resultado ("ok" ou a categoria do erro) de uma mutação.
func CartOperation(kind, operation, result string) {
	cartOperations.WithLabelValues(kind, operation, result).Inc()
}

// CartPersistFailed registra uma falha de persistência.
func CartPersistFailed(kind string) {
	cartPersistFailures.WithLabelValues(kind).Inc()
}

// Handler expõe o registro padrão no formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
