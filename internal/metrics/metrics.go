// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlaceResolutions counts resolver outcomes by tier
	// (cache, nearby, geocode, coordinates).
	PlaceResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kilroy_place_resolutions_total",
		Help: "Place resolutions by fallback tier.",
	}, []string{"tier"})

	// KilroysCreated counts created posts by circle.
	KilroysCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kilroy_posts_created_total",
		Help: "Kilroys created, labelled by circle.",
	}, []string{"circle"})

	// Verifications counts identity verification outcomes.
	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kilroy_verifications_total",
		Help: "Identity verification attempts by outcome.",
	}, []string{"outcome"})

	// NormalizedImageBytes tracks encoded sizes out of the normalizer.
	NormalizedImageBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kilroy_normalized_image_bytes",
		Help:    "Size of normalized image blobs.",
		Buckets: prometheus.ExponentialBuckets(16<<10, 2, 8),
	})
)
