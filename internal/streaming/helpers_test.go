package streaming

import (
	"errors"
	"sync"
	"testing"
	"time"

	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var errFakeCreate = errors.New("fake: create failed")

// fakeRenderer records every model lifecycle call.
type fakeRenderer struct {
	next      ModelHandle
	labels    map[ModelHandle]string
	spawned   map[ModelHandle]bool
	created   []ModelHandle
	destroyed []ModelHandle
	despawned []ModelHandle

	failCreate map[string]int // label -> remaining failures
	failSpawn  map[string]int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		labels:     make(map[ModelHandle]string),
		spawned:    make(map[ModelHandle]bool),
		failCreate: make(map[string]int),
		failSpawn:  make(map[string]int),
	}
}

func (f *fakeRenderer) CreateModel(mesh *world.Mesh, _ TextureHandle, label string) (ModelHandle, error) {
	if f.failCreate[label] > 0 {
		f.failCreate[label]--
		return 0, errFakeCreate
	}
	f.next++
	f.labels[f.next] = label
	f.created = append(f.created, f.next)
	return f.next, nil
}

func (f *fakeRenderer) SpawnModel(h ModelHandle) error {
	if label := f.labels[h]; f.failSpawn[label] > 0 {
		f.failSpawn[label]--
		return errors.New("fake: spawn failed")
	}
	f.spawned[h] = true
	return nil
}

func (f *fakeRenderer) DespawnModel(h ModelHandle) {
	delete(f.spawned, h)
	f.despawned = append(f.despawned, h)
}

func (f *fakeRenderer) DestroyModel(h ModelHandle) {
	delete(f.labels, h)
	f.destroyed = append(f.destroyed, h)
}

// liveLabels returns the label of every spawned model.
func (f *fakeRenderer) liveLabels() []string {
	var out []string
	for h := range f.spawned {
		out = append(out, f.labels[h])
	}
	return out
}

// gatedGenerator blocks generation until Open is called.
type gatedGenerator struct {
	inner   world.TerrainGenerator
	gate    chan struct{}
	once    sync.Once
	started chan world.ChunkPosition
}

func newGatedGenerator(inner world.TerrainGenerator) *gatedGenerator {
	return &gatedGenerator{
		inner:   inner,
		gate:    make(chan struct{}),
		started: make(chan world.ChunkPosition, 256),
	}
}

func (g *gatedGenerator) Open() {
	g.once.Do(func() { close(g.gate) })
}

func (g *gatedGenerator) HeightAt(x, z int) int {
	return g.inner.HeightAt(x, z)
}

func (g *gatedGenerator) PopulateChunk(c *world.Chunk) {
	select {
	case g.started <- c.Position:
	default:
	}
	<-g.gate
	g.inner.PopulateChunk(c)
}

func newTestWorld(t *testing.T, gen world.TerrainGenerator, r Renderer, renderDistance int) *World {
	t.Helper()
	w := New(gen, r, Options{
		RenderDistance: renderDistance,
		Metrics:        NewMetrics(prometheus.NewRegistry()),
		Streamer:       StreamerOptions{Workers: 4},
	})
	t.Cleanup(w.Close)
	return w
}

// chunkCenter is a viewpoint in the middle of the given chunk.
func chunkCenter(x, z int32) mgl32.Vec3 {
	return mgl32.Vec3{float32(x)*world.ChunkSize + 8, 80, float32(z)*world.ChunkSize + 8}
}

// pumpUntil runs Update at view until cond holds, checking that no position is
// both in flight and loaded after every tick.
func pumpUntil(t *testing.T, w *World, view mgl32.Vec3, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, w.Update(view))
		requireExclusive(t, w)
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met, stats %+v", w.Stats())
		}
		time.Sleep(time.Millisecond)
	}
}

// settle pumps until every desired chunk is loaded and nothing is pending.
func settle(t *testing.T, w *World, view mgl32.Vec3, want int) {
	t.Helper()
	pumpUntil(t, w, view, func() bool {
		st := w.Stats()
		return st.Loaded == want && st.InFlight == 0 && st.PendingRebuild == 0
	})
}

func requireExclusive(t *testing.T, w *World) {
	t.Helper()
	for pos := range w.inFlight {
		require.Falsef(t, w.store.Has(pos), "%v is both in flight and loaded", pos)
	}
}
