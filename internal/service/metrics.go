package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ailogo_generation_attempts_total",
			Help: "Generation attempts by outcome.",
		},
		[]string{"outcome"}, // "submitted", "success", "error", "stale"
	)
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ailogo_generation_duration_seconds",
		Help:    "Duration of calls to the generation endpoint.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 9), // 0.5s .. 128s
	})
	persistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ailogo_image_persist_total",
			Help: "Image record writes by result.",
		},
		[]string{"result"}, // "ok", "error"
	)
)
