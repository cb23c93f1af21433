package streaming

import (
	"cmp"
	"slices"

	"voxelstream/internal/world"
)

// storedChunk is a loaded chunk and the model currently registered for it.
type storedChunk struct {
	chunk *world.Chunk
	model ModelHandle
}

// ChunkStore maps loaded positions to chunks. It is owned by the update
// goroutine and is not safe for concurrent use.
type ChunkStore struct {
	chunks   map[world.ChunkPosition]*storedChunk
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[world.ChunkPosition]*storedChunk),
	}
}

// get returns the stored entry at pos, or nil.
func (cs *ChunkStore) get(pos world.ChunkPosition) *storedChunk {
	return cs.chunks[pos]
}

// Chunk returns the loaded chunk at pos, or nil.
func (cs *ChunkStore) Chunk(pos world.ChunkPosition) *world.Chunk {
	if e := cs.chunks[pos]; e != nil {
		return e.chunk
	}
	return nil
}

// Has reports whether pos is loaded.
func (cs *ChunkStore) Has(pos world.ChunkPosition) bool {
	_, ok := cs.chunks[pos]
	return ok
}

func (cs *ChunkStore) put(c *world.Chunk, model ModelHandle) {
	cs.chunks[c.Position] = &storedChunk{chunk: c, model: model}
	cs.modCount++
}

func (cs *ChunkStore) remove(pos world.ChunkPosition) *storedChunk {
	e, ok := cs.chunks[pos]
	if !ok {
		return nil
	}
	delete(cs.chunks, pos)
	cs.modCount++
	return e
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	return len(cs.chunks)
}

// ModCount changes whenever a chunk is added or removed.
func (cs *ChunkStore) ModCount() uint64 {
	return cs.modCount
}

// MarkNeighborsDirty flags the loaded cardinal neighbours of pos for a mesh rebuild
// and returns how many were flagged.
func (cs *ChunkStore) MarkNeighborsDirty(pos world.ChunkPosition) int {
	n := 0
	for _, np := range pos.Neighbors() {
		if c := cs.Chunk(np); c != nil {
			c.MarkDirty()
			n++
		}
	}
	return n
}

// Positions returns every loaded position, sorted by X then Z.
func (cs *ChunkStore) Positions() []world.ChunkPosition {
	out := make([]world.ChunkPosition, 0, len(cs.chunks))
	for pos := range cs.chunks {
		out = append(out, pos)
	}
	slices.SortFunc(out, comparePositions)
	return out
}

// DirtyPositions returns the loaded positions awaiting a rebuild, sorted.
func (cs *ChunkStore) DirtyPositions() []world.ChunkPosition {
	var out []world.ChunkPosition
	for pos, e := range cs.chunks {
		if e.chunk.IsDirty() {
			out = append(out, pos)
		}
	}
	slices.SortFunc(out, comparePositions)
	return out
}

// FarPositions returns loaded positions outside keep.
func (cs *ChunkStore) FarPositions(keep map[world.ChunkPosition]struct{}) []world.ChunkPosition {
	var out []world.ChunkPosition
	for pos := range cs.chunks {
		if _, ok := keep[pos]; !ok {
			out = append(out, pos)
		}
	}
	slices.SortFunc(out, comparePositions)
	return out
}

func comparePositions(a, b world.ChunkPosition) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}
