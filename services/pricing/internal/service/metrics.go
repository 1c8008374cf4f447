// services/pricing/internal/service/metrics.go
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_model_fits_total",
		Help: "Price model fit attempts by result",
	}, []string{"result"})

	suggestionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_suggestions_total",
		Help: "Price suggestions computed, by source",
	}, []string{"source"})

	modelAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pricing_model_accuracy",
		Help: "In-sample accuracy of the active price model",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_cache_lookups_total",
		Help: "Suggestion cache lookups by layer and outcome",
	}, []string{"layer", "outcome"})
)
