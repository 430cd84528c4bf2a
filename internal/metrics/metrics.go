package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexface_frames_total",
			Help: "Total number of frames rendered",
		},
	)

	FrameDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cortexface_frame_duration_seconds",
			Help:    "Wall time spent per frame",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	FPS = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cortexface_fps",
			Help: "Frames per second over the last second",
		},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortexface_commands_total",
			Help: "Total number of commands received",
		},
		[]string{"command", "status"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cortexface_queue_depth",
			Help: "Commands waiting in the queue",
		},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cortexface_active_connections",
			Help: "Open command connections",
		},
	)

	StateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortexface_state_transitions_total",
			Help: "Total number of expression transitions",
		},
		[]string{"from", "to"},
	)

	TextureCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortexface_texture_cache_hits_total",
			Help: "Texture cache hits by layer",
		},
		[]string{"layer"},
	)

	TextureCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexface_texture_cache_misses_total",
			Help: "Texture cache misses requiring synthesis",
		},
	)

	TextureStoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexface_texture_store_errors_total",
			Help: "Persistent texture store failures downgraded to misses",
		},
	)

	RenderSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexface_render_skips_total",
			Help: "Element draws skipped due to resource errors",
		},
	)

	ViewerClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cortexface_viewer_clients",
			Help: "Connected viewer websocket clients",
		},
	)
)
