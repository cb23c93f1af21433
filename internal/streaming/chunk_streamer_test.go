package streaming

import (
	"testing"
	"time"

	"voxelstream/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, cs *ChunkStreamer, n int) map[world.ChunkPosition]*world.Chunk {
	t.Helper()
	out := make(map[world.ChunkPosition]*world.Chunk, n)
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case res := <-cs.Results():
			out[res.Chunk.Position] = res.Chunk
		case <-timeout:
			t.Fatalf("received %d of %d chunks", len(out), n)
		}
	}
	return out
}

func TestStreamerGeneratesEveryJob(t *testing.T) {
	gen := world.NewGenerator(42)
	cs := NewChunkStreamer(gen, StreamerOptions{Workers: 3})
	defer cs.Close()

	var want []world.ChunkPosition
	for x := int32(-3); x <= 3; x++ {
		for z := int32(-3); z <= 3; z++ {
			pos := world.ChunkPosition{X: x, Z: z}
			ok, err := cs.TrySubmit(Job{Position: pos})
			require.NoError(t, err)
			require.True(t, ok)
			want = append(want, pos)
		}
	}

	got := collect(t, cs, len(want))
	for _, pos := range want {
		c, ok := got[pos]
		require.True(t, ok, pos)

		// Generation order does not matter: a fresh sequential chunk is identical.
		ref := world.NewChunk(pos)
		gen.PopulateChunk(ref)
		assert.True(t, ref.Equal(c), pos)
	}
	assert.Equal(t, uint64(len(want)), cs.Generated())
}

func TestStreamerReportsFullQueue(t *testing.T) {
	gen := newGatedGenerator(world.NewFlatGenerator(4))
	cs := NewChunkStreamer(gen, StreamerOptions{Workers: 1, JobQueueSize: 1})
	defer cs.Close()
	defer gen.Open()

	ok, err := cs.TrySubmit(Job{Position: world.ChunkPosition{X: 0}})
	require.NoError(t, err)
	require.True(t, ok)
	<-gen.started // the dispatcher took the first job and is blocked in it

	ok, _ = cs.TrySubmit(Job{Position: world.ChunkPosition{X: 1}})
	assert.True(t, ok)
	ok, err = cs.TrySubmit(Job{Position: world.ChunkPosition{X: 2}})
	assert.NoError(t, err)
	assert.False(t, ok, "queue of one is full")
	assert.Equal(t, 1, cs.QueueLength())

	gen.Open()
	got := collect(t, cs, 2)
	assert.Contains(t, got, world.ChunkPosition{X: 0})
	assert.Contains(t, got, world.ChunkPosition{X: 1})
}

func TestStreamerRejectsAfterClose(t *testing.T) {
	cs := NewChunkStreamer(world.NewFlatGenerator(4), StreamerOptions{})
	cs.Close()
	cs.Close()

	ok, err := cs.TrySubmit(Job{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrPipelineClosed)
}

func TestStreamerCloseDoesNotBlockOnFullResults(t *testing.T) {
	cs := NewChunkStreamer(world.NewFlatGenerator(4), StreamerOptions{Workers: 2, ResultQueueSize: 1})
	for x := int32(0); x < 8; x++ {
		_, err := cs.TrySubmit(Job{Position: world.ChunkPosition{X: x}})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		cs.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked")
	}
}
