package store

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/quietriver/terragen/internal/wfc"
	"github.com/quietriver/terragen/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "chunks.db"),
	})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testChunk(origin wfc.Coord, size int) *world.Chunk {
	tiles := make(map[wfc.Coord]wfc.TileID, size*size)
	kinds := []wfc.TileID{"water", "beach", "plains"}
	for y := origin.Y; y < origin.Y+size; y++ {
		for x := origin.X; x < origin.X+size; x++ {
			tiles[wfc.Coord{X: x, Y: y}] = kinds[(x+y+2*size)%len(kinds)]
		}
	}
	return &world.Chunk{
		Origin:      origin,
		Size:        size,
		Seed:        12345,
		GeneratedAt: time.Unix(1700000000, 0),
		Tiles:       tiles,
	}
}

func TestSaveAndLoadChunk(t *testing.T) {
	s := openTestStore(t)

	chunk := testChunk(wfc.Coord{X: -8, Y: 16}, 4)
	if err := s.SaveChunk(42, chunk); err != nil {
		t.Fatalf("SaveChunk() failed: %v", err)
	}

	loaded, err := s.LoadChunk(42, chunk.Origin)
	if err != nil {
		t.Fatalf("LoadChunk() failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadChunk() returned nil for stored chunk")
	}

	if loaded.Origin != chunk.Origin {
		t.Errorf("Origin = (%d,%d), want (%d,%d)",
			loaded.Origin.X, loaded.Origin.Y, chunk.Origin.X, chunk.Origin.Y)
	}
	if loaded.Size != chunk.Size {
		t.Errorf("Size = %d, want %d", loaded.Size, chunk.Size)
	}
	if loaded.Seed != chunk.Seed {
		t.Errorf("Seed = %d, want %d", loaded.Seed, chunk.Seed)
	}
	if !loaded.GeneratedAt.Equal(chunk.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", loaded.GeneratedAt, chunk.GeneratedAt)
	}
	if !reflect.DeepEqual(loaded.Tiles, chunk.Tiles) {
		t.Error("loaded tiles differ from saved tiles")
	}
}

func TestLoadChunkMissing(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadChunk(42, wfc.Coord{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("LoadChunk() failed: %v", err)
	}
	if loaded != nil {
		t.Error("LoadChunk() should return nil for missing chunk")
	}
}

func TestSaveChunkOverwrites(t *testing.T) {
	s := openTestStore(t)
	origin := wfc.Coord{X: 0, Y: 0}

	first := testChunk(origin, 2)
	if err := s.SaveChunk(42, first); err != nil {
		t.Fatalf("first SaveChunk() failed: %v", err)
	}

	second := testChunk(origin, 2)
	for coord := range second.Tiles {
		second.Tiles[coord] = "plains"
	}
	second.Seed = 999
	if err := s.SaveChunk(42, second); err != nil {
		t.Fatalf("second SaveChunk() failed: %v", err)
	}

	loaded, err := s.LoadChunk(42, origin)
	if err != nil {
		t.Fatalf("LoadChunk() failed: %v", err)
	}
	if loaded.Seed != 999 {
		t.Errorf("Seed = %d after overwrite, want 999", loaded.Seed)
	}
	for coord, tile := range loaded.Tiles {
		if tile != "plains" {
			t.Errorf("tile (%d,%d) = %q after overwrite, want %q",
				coord.X, coord.Y, tile, "plains")
		}
	}

	count, err := s.ChunkCount(42)
	if err != nil {
		t.Fatalf("ChunkCount() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("ChunkCount() = %d after overwrite, want 1", count)
	}
}

func TestChunksKeyedByWorldSeed(t *testing.T) {
	s := openTestStore(t)
	origin := wfc.Coord{X: 0, Y: 0}

	if err := s.SaveChunk(1, testChunk(origin, 2)); err != nil {
		t.Fatalf("SaveChunk() failed: %v", err)
	}

	loaded, err := s.LoadChunk(2, origin)
	if err != nil {
		t.Fatalf("LoadChunk() failed: %v", err)
	}
	if loaded != nil {
		t.Error("chunk stored under seed 1 should not load under seed 2")
	}
}

func TestHasChunk(t *testing.T) {
	s := openTestStore(t)
	origin := wfc.Coord{X: 4, Y: 4}

	ok, err := s.HasChunk(42, origin)
	if err != nil {
		t.Fatalf("HasChunk() failed: %v", err)
	}
	if ok {
		t.Error("HasChunk() = true before save")
	}

	if err := s.SaveChunk(42, testChunk(origin, 2)); err != nil {
		t.Fatalf("SaveChunk() failed: %v", err)
	}

	ok, err = s.HasChunk(42, origin)
	if err != nil {
		t.Fatalf("HasChunk() failed: %v", err)
	}
	if !ok {
		t.Error("HasChunk() = false after save")
	}
}

func TestDeleteChunk(t *testing.T) {
	s := openTestStore(t)
	origin := wfc.Coord{X: 0, Y: 0}

	if err := s.SaveChunk(42, testChunk(origin, 2)); err != nil {
		t.Fatalf("SaveChunk() failed: %v", err)
	}
	if err := s.DeleteChunk(42, origin); err != nil {
		t.Fatalf("DeleteChunk() failed: %v", err)
	}

	loaded, err := s.LoadChunk(42, origin)
	if err != nil {
		t.Fatalf("LoadChunk() failed: %v", err)
	}
	if loaded != nil {
		t.Error("chunk still loadable after delete")
	}
}

func TestStoreSatisfiesChunkStore(t *testing.T) {
	var _ world.ChunkStore = (*Store)(nil)
}
