package streaming

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the streaming collectors.
type Metrics struct {
	Requested       prometheus.Counter
	Loaded          prometheus.Counter
	Discarded       prometheus.Counter
	Unloaded        prometheus.Counter
	Rebuilds        prometheus.Counter
	RegisterFailure prometheus.Counter

	LoadedChunks   prometheus.Gauge
	InFlightChunks prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelstream_chunks_requested_total",
			Help: "Chunk generation jobs requested.",
		}),
		Loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelstream_chunks_loaded_total",
			Help: "Generated chunks meshed, registered and inserted.",
		}),
		Discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelstream_chunks_discarded_total",
			Help: "Generated chunks dropped because they left render distance.",
		}),
		Unloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelstream_chunks_unloaded_total",
			Help: "Chunks evicted outside render distance.",
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelstream_mesh_rebuilds_total",
			Help: "Chunk meshes rebuilt after a neighbour or voxel change.",
		}),
		RegisterFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelstream_register_failures_total",
			Help: "Chunk models the renderer failed to create or spawn.",
		}),
		LoadedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voxelstream_chunks_loaded",
			Help: "Chunks currently loaded.",
		}),
		InFlightChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voxelstream_chunks_inflight",
			Help: "Chunk positions requested and not yet completed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Requested, m.Loaded, m.Discarded, m.Unloaded, m.Rebuilds, m.RegisterFailure,
			m.LoadedChunks, m.InFlightChunks,
		)
	}
	return m
}
