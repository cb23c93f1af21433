package streaming

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"voxelstream/internal/profiling"
	"voxelstream/internal/world"

	"github.com/alitto/pond/v2"
)

// ErrPipelineClosed is returned when jobs are submitted after the streamer was closed.
var ErrPipelineClosed = errors.New("streaming: generation pipeline closed")

// Job asks for the chunk at Position to be generated.
type Job struct {
	Position world.ChunkPosition
}

// Result carries a freshly populated chunk. The receiver owns it.
type Result struct {
	Chunk *world.Chunk
}

// StreamerOptions sizes the generation pipeline. Zero values pick defaults.
type StreamerOptions struct {
	Workers         int
	JobQueueSize    int
	ResultQueueSize int
	Logger          *slog.Logger
}

// ChunkStreamer runs terrain generation off the update goroutine.
// Jobs go in through a bounded channel; a dispatcher drains whatever is queued
// and generates that batch on a worker pool; chunks come back on Results.
type ChunkStreamer struct {
	gen     world.TerrainGenerator
	jobs    chan Job
	results chan Result
	pool    pond.Pool
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool

	generated atomic.Uint64
}

// NewChunkStreamer creates a streamer and starts its dispatcher.
func NewChunkStreamer(gen world.TerrainGenerator, opts StreamerOptions) *ChunkStreamer {
	workers := opts.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	jobQueue := opts.JobQueueSize
	if jobQueue <= 0 {
		jobQueue = 4096
	}
	resultQueue := opts.ResultQueueSize
	if resultQueue <= 0 {
		resultQueue = 1024
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cs := &ChunkStreamer{
		gen:     gen,
		jobs:    make(chan Job, jobQueue),
		results: make(chan Result, resultQueue),
		pool:    pond.NewPool(workers),
		log:     logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	cs.wg.Add(1)
	go cs.dispatch()

	return cs
}

// TrySubmit queues a job without blocking. It reports false when the queue is full.
func (cs *ChunkStreamer) TrySubmit(job Job) (bool, error) {
	if cs.closed.Load() {
		return false, ErrPipelineClosed
	}
	select {
	case cs.jobs <- job:
		return true, nil
	default:
		return false, nil
	}
}

// Results is the channel completed chunks arrive on.
func (cs *ChunkStreamer) Results() <-chan Result {
	return cs.results
}

// QueueLength returns the number of jobs waiting for the dispatcher.
func (cs *ChunkStreamer) QueueLength() int {
	return len(cs.jobs)
}

// Generated returns how many chunks have been produced so far.
func (cs *ChunkStreamer) Generated() uint64 {
	return cs.generated.Load()
}

// Close stops the dispatcher and waits for running generation to finish.
// Queued jobs that were not started are dropped. Close is idempotent.
func (cs *ChunkStreamer) Close() {
	if cs.closed.Swap(true) {
		return
	}
	cs.cancel()
	cs.wg.Wait()
	cs.pool.StopAndWait()
}

func (cs *ChunkStreamer) dispatch() {
	defer cs.wg.Done()

	batch := make([]Job, 0, 64)
	for {
		select {
		case <-cs.ctx.Done():
			return
		case job := <-cs.jobs:
			batch = append(batch[:0], job)
		drain:
			for {
				select {
				case j := <-cs.jobs:
					batch = append(batch, j)
				default:
					break drain
				}
			}
			cs.runBatch(batch)
		}
	}
}

// runBatch generates every job in parallel and waits for the whole batch.
func (cs *ChunkStreamer) runBatch(batch []Job) {
	var wg sync.WaitGroup
	for _, job := range batch {
		wg.Add(1)
		cs.pool.Submit(func() {
			defer wg.Done()
			cs.generate(job)
		})
	}
	wg.Wait()
	cs.log.Debug("generated batch", "chunks", len(batch))
}

func (cs *ChunkStreamer) generate(job Job) {
	if cs.ctx.Err() != nil {
		return
	}
	stop := profiling.Track("streaming.generate")
	chunk := world.NewChunk(job.Position)
	cs.gen.PopulateChunk(chunk)
	stop()
	cs.generated.Add(1)

	select {
	case cs.results <- Result{Chunk: chunk}:
	case <-cs.ctx.Done():
	}
}
