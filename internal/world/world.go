package world

import (
	"fmt"
	"sync"
	"time"

	"github.com/quietriver/terragen/internal/logger"
	"github.com/quietriver/terragen/internal/wfc"
)

// DefaultChunkSize is the edge length used when no chunk size is configured.
const DefaultChunkSize = 16

// ChunkStore persists generated chunks. LoadChunk returns (nil, nil) when no
// chunk is stored for the given origin.
type ChunkStore interface {
	SaveChunk(worldSeed int64, chunk *Chunk) error
	LoadChunk(worldSeed int64, origin wfc.Coord) (*Chunk, error)
}

// World holds the seeded terrain. Chunks are generated lazily on first
// access and cached; each chunk is an independent solve, so no constraints
// cross chunk boundaries.
type World struct {
	Seed        int64
	catalog     wfc.Catalog
	chunkSize   int
	maxAttempts int
	chunks      map[wfc.Coord]*Chunk
	store       ChunkStore
	readOnly    bool
	mu          sync.RWMutex
}

// NewWorld creates a world generating chunks of the given size from the
// catalog. A non-positive chunkSize falls back to DefaultChunkSize.
func NewWorld(catalog wfc.Catalog, seed int64, chunkSize int) *World {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &World{
		Seed:      seed,
		catalog:   catalog,
		chunkSize: chunkSize,
		chunks:    make(map[wfc.Coord]*Chunk),
	}
}

// SetStore attaches a persistent chunk store.
func (w *World) SetStore(store ChunkStore) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store = store
}

// SetReadOnly controls whether newly generated chunks are written to the store.
func (w *World) SetReadOnly(readOnly bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.readOnly = readOnly
}

// SetMaxAttempts overrides the per-chunk solve attempt budget.
func (w *World) SetMaxAttempts(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.maxAttempts = n
}

// ChunkSize returns the edge length of this world's chunks.
func (w *World) ChunkSize() int {
	return w.chunkSize
}

// ChunkCount returns the number of chunks currently cached in memory.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// HasChunk returns true if the chunk at the given chunk coordinate is cached.
func (w *World) HasChunk(cx, cy int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.chunks[wfc.Coord{X: cx, Y: cy}]
	return ok
}

// SetChunk inserts a chunk directly (used when loading from persistence).
func (w *World) SetChunk(cx, cy int, chunk *Chunk) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunks[wfc.Coord{X: cx, Y: cy}] = chunk
}

// ChunkAt returns the chunk at chunk coordinate (cx, cy), generating it if
// necessary. Lookup order is memory cache, then store, then a fresh solve.
func (w *World) ChunkAt(cx, cy int) (*Chunk, error) {
	key := wfc.Coord{X: cx, Y: cy}

	w.mu.RLock()
	chunk, ok := w.chunks[key]
	w.mu.RUnlock()
	if ok {
		return chunk, nil
	}

	origin := wfc.Coord{X: cx * w.chunkSize, Y: cy * w.chunkSize}

	if w.store != nil {
		stored, err := w.store.LoadChunk(w.Seed, origin)
		if err != nil {
			logger.Warning("Failed to load chunk from store", "chunk", ChunkID(cx, cy), "error", err)
		} else if stored != nil {
			w.mu.Lock()
			w.chunks[key] = stored
			w.mu.Unlock()
			return stored, nil
		}
	}

	chunk, err := w.generateChunk(origin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", ChunkID(cx, cy), err)
	}

	w.mu.Lock()
	w.chunks[key] = chunk
	store := w.store
	readOnly := w.readOnly
	w.mu.Unlock()

	if store != nil && !readOnly {
		if err := store.SaveChunk(w.Seed, chunk); err != nil {
			logger.Warning("Failed to persist chunk", "chunk", ChunkID(cx, cy), "error", err)
		}
	}

	logger.Debug("Generated chunk", "chunk", ChunkID(cx, cy), "size", w.chunkSize, "seed", chunk.Seed)
	return chunk, nil
}

// generateChunk runs one full WFC solve for the chunk anchored at origin.
func (w *World) generateChunk(origin wfc.Coord) (*Chunk, error) {
	seed := ChunkSeed(w.Seed, origin)

	gen := wfc.NewGenerator(w.catalog, seed)
	if w.maxAttempts > 0 {
		gen.SetMaxAttempts(w.maxAttempts)
	}

	tiles, err := gen.GenerateChunk(origin, w.chunkSize)
	if err != nil {
		return nil, err
	}

	return &Chunk{
		Origin:      origin,
		Size:        w.chunkSize,
		Seed:        seed,
		GeneratedAt: time.Now(),
		Tiles:       tiles,
	}, nil
}

// TileAt returns the tile at a world coordinate, generating the owning chunk
// if needed.
func (w *World) TileAt(x, y int) (wfc.TileID, error) {
	chunk, err := w.ChunkAt(floorDiv(x, w.chunkSize), floorDiv(y, w.chunkSize))
	if err != nil {
		return "", err
	}

	id, ok := chunk.TileAt(x, y)
	if !ok {
		return "", fmt.Errorf("tile (%d,%d) missing from its chunk", x, y)
	}
	return id, nil
}

// floorDiv divides rounding toward negative infinity, so negative world
// coordinates map to the correct chunk.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
