package world

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Метрики мира и конвейера генерации
var (
	chunksGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "floralcraft_chunks_generated_total",
		Help: "Количество чанков, слитых в мир конвейером генерации",
	})

	chunkGenerationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "floralcraft_chunk_generation_seconds",
		Help:    "Время генерации одного чанка (блоки + открытость)",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	chunksInflightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "floralcraft_chunks_inflight",
		Help: "Количество задач генерации в полете",
	})

	dirtyChunksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "floralcraft_dirty_chunks",
		Help: "Текущий размер набора грязных чанков",
	})

	generationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "floralcraft_generation_failures_total",
		Help: "Количество задач генерации, завершившихся паникой",
	})

	duplicateMergesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "floralcraft_duplicate_merges_total",
		Help: "Количество результатов генерации, отброшенных из-за гонки позиций",
	})
)

var registerMetricsOnce sync.Once

// RegisterMetrics регистрирует метрики мира в реестре Prometheus по
// умолчанию. Повторные вызовы безопасны.
func RegisterMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(
			chunksGeneratedTotal,
			chunkGenerationSeconds,
			chunksInflightGauge,
			dirtyChunksGauge,
			generationFailuresTotal,
			duplicateMergesTotal,
		)
	})
}
