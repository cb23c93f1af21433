package streaming

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"voxelstream/internal/meshing"
	"voxelstream/internal/profiling"
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configures a World.
type Options struct {
	RenderDistance int
	Texture        TextureHandle
	Streamer       StreamerOptions
	Logger         *slog.Logger
	Metrics        *Metrics
}

// Stats is a snapshot of the streaming state.
type Stats struct {
	Center         world.ChunkPosition
	RenderDistance int
	Loaded         int
	InFlight       int
	PendingRebuild int
	Backlog        int
}

// World owns every loaded chunk and decides which chunks should exist around the
// viewpoint. Every method except Close must be called from the single update
// goroutine; chunk data is never shared with the generation workers once it
// has been handed over.
type World struct {
	renderer Renderer
	texture  TextureHandle
	streamer *ChunkStreamer
	store    *ChunkStore
	metrics  *Metrics
	log      *slog.Logger

	renderDistance int
	inFlight       map[world.ChunkPosition]struct{}
	desired        map[world.ChunkPosition]struct{}
	backlog        []world.ChunkPosition

	center    world.ChunkPosition
	evaluated bool
	force     bool
	closed    bool
}

// New creates a World that generates with gen and registers meshes with r.
func New(gen world.TerrainGenerator, r Renderer, opts Options) *World {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	streamerOpts := opts.Streamer
	if streamerOpts.Logger == nil {
		streamerOpts.Logger = logger
	}

	return &World{
		renderer:       r,
		texture:        opts.Texture,
		streamer:       NewChunkStreamer(gen, streamerOpts),
		store:          NewChunkStore(),
		metrics:        metrics,
		log:            logger,
		renderDistance: max(opts.RenderDistance, 0),
		inFlight:       make(map[world.ChunkPosition]struct{}),
		desired:        make(map[world.ChunkPosition]struct{}),
	}
}

// Update runs one streaming tick around viewPos: re-evaluate the desired set when
// the viewpoint changed chunk, install finished chunks, hand queued jobs to the
// workers and rebuild every chunk flagged for it. The only error is a closed
// generation pipeline, which is fatal.
func (w *World) Update(viewPos mgl32.Vec3) error {
	defer profiling.Track("streaming.Update")()
	if w.closed {
		return ErrPipelineClosed
	}

	w.evaluate(world.ChunkPositionFromWorld(viewPos.X(), viewPos.Z()))
	w.drain()
	if err := w.flush(); err != nil {
		w.log.Error("generation pipeline failed", "error", err)
		return err
	}
	w.rebuild()

	w.metrics.LoadedChunks.Set(float64(w.store.Len()))
	w.metrics.InFlightChunks.Set(float64(len(w.inFlight)))
	return nil
}

// evaluate recomputes the desired set around center, requests missing chunks
// nearest first and unloads loaded chunks that fell outside.
func (w *World) evaluate(center world.ChunkPosition) {
	if w.evaluated && !w.force && center == w.center {
		return
	}
	defer profiling.Track("streaming.evaluate")()
	w.center = center
	w.evaluated = true
	w.force = false

	r := int32(w.renderDistance)
	r2 := int64(r) * int64(r)
	clear(w.desired)
	var missing []world.ChunkPosition
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			pos := world.ChunkPosition{X: center.X + dx, Z: center.Z + dz}
			if pos.DistanceSq(center) > r2 {
				continue
			}
			w.desired[pos] = struct{}{}
			if w.store.Has(pos) || w.isInFlight(pos) {
				continue
			}
			missing = append(missing, pos)
		}
	}

	slices.SortStableFunc(missing, func(a, b world.ChunkPosition) int {
		da, db := a.DistanceSq(center), b.DistanceSq(center)
		if da != db {
			if da < db {
				return -1
			}
			return 1
		}
		return comparePositions(a, b)
	})
	for _, pos := range missing {
		w.inFlight[pos] = struct{}{}
		w.backlog = append(w.backlog, pos)
		w.metrics.Requested.Inc()
	}

	for _, pos := range w.store.FarPositions(w.desired) {
		w.unload(pos)
	}
}

// drain installs every completed chunk that is available right now.
func (w *World) drain() {
	for {
		select {
		case res := <-w.streamer.Results():
			w.install(res.Chunk)
		default:
			return
		}
	}
}

func (w *World) install(c *world.Chunk) {
	pos := c.Position
	delete(w.inFlight, pos)

	if !w.isDesired(pos) || w.store.Has(pos) {
		w.metrics.Discarded.Inc()
		w.log.Debug("discarding late chunk", "pos", pos)
		return
	}

	mesh := meshing.BuildChunkMesh(c, w)
	model, err := w.register(mesh, pos)
	if err != nil {
		w.registerFailed(pos, err)
		return
	}
	c.SetMesh(mesh)
	w.store.put(c, model)
	w.store.MarkNeighborsDirty(pos)
	w.metrics.Loaded.Inc()
}

// flush hands backlog jobs to the streamer until its queue is full. Jobs for
// positions that are no longer wanted are dropped here.
func (w *World) flush() error {
	sent := 0
	for _, pos := range w.backlog {
		if !w.isDesired(pos) {
			delete(w.inFlight, pos)
			sent++
			continue
		}
		ok, err := w.streamer.TrySubmit(Job{Position: pos})
		if err != nil {
			return fmt.Errorf("submit %v: %w", pos, err)
		}
		if !ok {
			break
		}
		sent++
	}
	n := copy(w.backlog, w.backlog[sent:])
	w.backlog = w.backlog[:n]
	return nil
}

// rebuild re-meshes and re-registers every chunk flagged dirty.
func (w *World) rebuild() {
	for _, pos := range w.store.DirtyPositions() {
		e := w.store.get(pos)
		w.renderer.DespawnModel(e.model)
		w.renderer.DestroyModel(e.model)

		mesh := meshing.BuildChunkMesh(e.chunk, w)
		model, err := w.register(mesh, pos)
		if err != nil {
			// The chunk has no registration left; drop it so the next evaluation
			// requests it again.
			w.store.remove(pos)
			w.store.MarkNeighborsDirty(pos)
			w.registerFailed(pos, err)
			continue
		}
		e.model = model
		e.chunk.SetMesh(mesh)
		w.metrics.Rebuilds.Inc()
	}
}

func (w *World) register(mesh *world.Mesh, pos world.ChunkPosition) (ModelHandle, error) {
	model, err := w.renderer.CreateModel(mesh, w.texture, pos.String())
	if err != nil {
		return 0, fmt.Errorf("create model: %w", err)
	}
	if err := w.renderer.SpawnModel(model); err != nil {
		w.renderer.DestroyModel(model)
		return 0, fmt.Errorf("spawn model: %w", err)
	}
	return model, nil
}

func (w *World) registerFailed(pos world.ChunkPosition, err error) {
	w.metrics.RegisterFailure.Inc()
	w.log.Warn("chunk registration failed", "pos", pos, "error", err)
	w.force = true
}

// unload releases the chunk at pos and flags its loaded neighbours, whose shared
// faces may now be visible.
func (w *World) unload(pos world.ChunkPosition) {
	e := w.store.remove(pos)
	if e == nil {
		return
	}
	w.renderer.DespawnModel(e.model)
	w.renderer.DestroyModel(e.model)
	w.store.MarkNeighborsDirty(pos)
	w.metrics.Unloaded.Inc()
	w.log.Debug("unloaded chunk", "pos", pos)
}

func (w *World) isInFlight(pos world.ChunkPosition) bool {
	_, ok := w.inFlight[pos]
	return ok
}

func (w *World) isDesired(pos world.ChunkPosition) bool {
	_, ok := w.desired[pos]
	return ok
}

// LoadedChunk returns the loaded chunk at pos or nil. It lets the mesher see
// neighbours.
func (w *World) LoadedChunk(pos world.ChunkPosition) *world.Chunk {
	return w.store.Chunk(pos)
}

// IsLoaded reports whether pos is in the loaded map.
func (w *World) IsLoaded(pos world.ChunkPosition) bool {
	return w.store.Has(pos)
}

// IsInFlight reports whether pos was requested and has not completed yet.
func (w *World) IsInFlight(pos world.ChunkPosition) bool {
	return w.isInFlight(pos)
}

// Block returns the voxel at world coordinates, or Air when its chunk is not loaded.
func (w *World) Block(x, y, z int) world.BlockType {
	pos, lx, lz := world.WorldToLocal(x, z)
	c := w.store.Chunk(pos)
	if c == nil {
		return world.BlockTypeAir
	}
	return c.GetBlock(lx, y, lz)
}

// SetBlock writes a voxel in world coordinates. The owning chunk is rebuilt on
// the next tick, and so is the neighbour across an x/z border. It returns false
// when the chunk is not loaded or y is out of range.
func (w *World) SetBlock(x, y, z int, bt world.BlockType) bool {
	pos, lx, lz := world.WorldToLocal(x, z)
	c := w.store.Chunk(pos)
	if c == nil || !world.InBounds(lx, y, lz) {
		return false
	}
	if c.GetBlock(lx, y, lz) == bt {
		return true
	}
	c.SetBlock(lx, y, lz, bt)

	mark := func(p world.ChunkPosition) {
		if n := w.store.Chunk(p); n != nil {
			n.MarkDirty()
		}
	}
	if lx == 0 {
		mark(world.ChunkPosition{X: pos.X - 1, Z: pos.Z})
	} else if lx == world.ChunkSize-1 {
		mark(world.ChunkPosition{X: pos.X + 1, Z: pos.Z})
	}
	if lz == 0 {
		mark(world.ChunkPosition{X: pos.X, Z: pos.Z - 1})
	} else if lz == world.ChunkSize-1 {
		mark(world.ChunkPosition{X: pos.X, Z: pos.Z + 1})
	}
	return true
}

// RenderDistance returns the streaming radius in chunks.
func (w *World) RenderDistance() int {
	return w.renderDistance
}

// SetRenderDistance changes the radius. It takes effect on the next Update.
func (w *World) SetRenderDistance(r int) {
	w.renderDistance = max(r, 0)
	w.force = true
}

// Stats returns counts for the current state.
func (w *World) Stats() Stats {
	return Stats{
		Center:         w.center,
		RenderDistance: w.renderDistance,
		Loaded:         w.store.Len(),
		InFlight:       len(w.inFlight),
		PendingRebuild: len(w.store.DirtyPositions()),
		Backlog:        len(w.backlog),
	}
}

// Close stops generation and releases every registered model.
func (w *World) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.streamer.Close()
	for _, pos := range w.store.Positions() {
		e := w.store.remove(pos)
		w.renderer.DespawnModel(e.model)
		w.renderer.DestroyModel(e.model)
	}
	clear(w.inFlight)
	clear(w.desired)
	w.backlog = nil
	w.metrics.LoadedChunks.Set(0)
	w.metrics.InFlightChunks.Set(0)
}
