package wfc

import (
	"errors"
	"reflect"
	"testing"
)

// terrainCatalog builds a small coastline catalog whose adjacency forms a
// chain: water - beach - plains - forest.
func terrainCatalog() *testCatalog {
	weights := map[TileID]float64{
		"water":  1.0,
		"beach":  0.8,
		"plains": 2.0,
		"forest": 1.5,
	}
	allow := func(ids ...TileID) map[TileID]bool {
		set := make(map[TileID]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		return set
	}
	return &testCatalog{
		weights: weights,
		neighbors: map[TileID]map[TileID]bool{
			"water":  allow("water", "beach"),
			"beach":  allow("water", "beach", "plains"),
			"plains": allow("beach", "plains", "forest"),
			"forest": allow("plains", "forest"),
		},
	}
}

func TestGenerateChunkCompleteness(t *testing.T) {
	gen := NewGenerator(terrainCatalog(), 42)

	tiles, err := gen.GenerateChunk(Coord{0, 0}, 4)
	if err != nil {
		t.Fatalf("GenerateChunk() failed: %v", err)
	}

	if len(tiles) != 16 {
		t.Errorf("len(tiles) = %d, want 16", len(tiles))
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			id, ok := tiles[Coord{x, y}]
			if !ok {
				t.Errorf("missing tile at (%d,%d)", x, y)
			}
			if id == "" {
				t.Errorf("empty tile at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerateChunkAdjacencyValid(t *testing.T) {
	catalog := terrainCatalog()
	gen := NewGenerator(catalog, 42)

	tiles, err := gen.GenerateChunk(Coord{0, 0}, 8)
	if err != nil {
		t.Fatalf("GenerateChunk() failed: %v", err)
	}

	for coord, id := range tiles {
		for _, dir := range AllDirections() {
			neighborID, ok := tiles[coord.Neighbor(dir)]
			if !ok {
				continue // out of bounds
			}
			if !catalog.NeighborsAllowed(id)[neighborID] {
				t.Errorf("tile %q at (%d,%d) does not allow neighbor %q (%s)",
					id, coord.X, coord.Y, neighborID, dir)
			}
			if !catalog.NeighborsAllowed(neighborID)[id] {
				t.Errorf("tile %q does not allow %q back (%s of (%d,%d))",
					neighborID, id, dir, coord.X, coord.Y)
			}
		}
	}
}

func TestGenerateChunkDeterministic(t *testing.T) {
	first, err := NewGenerator(terrainCatalog(), 7).GenerateChunk(Coord{0, 0}, 6)
	if err != nil {
		t.Fatalf("first GenerateChunk() failed: %v", err)
	}
	second, err := NewGenerator(terrainCatalog(), 7).GenerateChunk(Coord{0, 0}, 6)
	if err != nil {
		t.Fatalf("second GenerateChunk() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical seeds produced different chunks")
	}
}

func TestGenerateChunkSeedsDiffer(t *testing.T) {
	first, err := NewGenerator(terrainCatalog(), 1).GenerateChunk(Coord{0, 0}, 8)
	if err != nil {
		t.Fatalf("seed 1 GenerateChunk() failed: %v", err)
	}
	second, err := NewGenerator(terrainCatalog(), 2).GenerateChunk(Coord{0, 0}, 8)
	if err != nil {
		t.Fatalf("seed 2 GenerateChunk() failed: %v", err)
	}

	if reflect.DeepEqual(first, second) {
		t.Error("seeds 1 and 2 produced identical chunks")
	}
}

func TestGenerateChunkStreamAdvances(t *testing.T) {
	// The same generator called twice keeps consuming its stream, so the
	// second chunk should differ from the first.
	gen := NewGenerator(terrainCatalog(), 9)

	first, err := gen.GenerateChunk(Coord{0, 0}, 6)
	if err != nil {
		t.Fatalf("first GenerateChunk() failed: %v", err)
	}
	second, err := gen.GenerateChunk(Coord{0, 0}, 6)
	if err != nil {
		t.Fatalf("second GenerateChunk() failed: %v", err)
	}

	if reflect.DeepEqual(first, second) {
		t.Error("consecutive chunks from one generator were identical")
	}
}

func TestGenerateChunkOriginOffset(t *testing.T) {
	gen := NewGenerator(terrainCatalog(), 3)

	tiles, err := gen.GenerateChunk(Coord{-3, 5}, 3)
	if err != nil {
		t.Fatalf("GenerateChunk() failed: %v", err)
	}

	if len(tiles) != 9 {
		t.Errorf("len(tiles) = %d, want 9", len(tiles))
	}
	for y := 5; y < 8; y++ {
		for x := -3; x < 0; x++ {
			if _, ok := tiles[Coord{x, y}]; !ok {
				t.Errorf("missing tile at (%d,%d)", x, y)
			}
		}
	}
	if _, ok := tiles[Coord{0, 5}]; ok {
		t.Error("tile generated outside the requested square")
	}
}

func TestGenerateChunkInvalidSize(t *testing.T) {
	gen := NewGenerator(terrainCatalog(), 1)

	for _, size := range []int{0, -4} {
		if _, err := gen.GenerateChunk(Coord{0, 0}, size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("GenerateChunk(size=%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestWeightedCollapseBias(t *testing.T) {
	// Collapsing an unconstrained {plains: 2.5, beach: 0.4} domain should
	// favor plains at roughly the 6.25:1 weight ratio.
	catalog := openCatalog(map[TileID]float64{"plains": 2.5, "beach": 0.4})

	const trials = 1000
	plains := 0
	for seed := int64(0); seed < trials; seed++ {
		tiles, err := NewGenerator(catalog, seed).GenerateChunk(Coord{0, 0}, 1)
		if err != nil {
			t.Fatalf("seed %d: GenerateChunk() failed: %v", seed, err)
		}
		if tiles[Coord{0, 0}] == "plains" {
			plains++
		}
	}

	beach := trials - plains
	if plains <= beach {
		t.Errorf("plains selected %d times, beach %d; heavier tile must win more often",
			plains, beach)
	}
	// Expected share is 2.5/2.9 ~ 86%; allow a wide statistical band.
	if plains < 820 || plains > 905 {
		t.Errorf("plains selected %d of %d trials, want within [820, 905]", plains, trials)
	}
}

func TestContradictionExhaustsAttempts(t *testing.T) {
	// A tile that allows no neighbors at all cannot fill any chunk larger
	// than a single cell.
	catalog := &testCatalog{
		weights:   map[TileID]float64{"island": 1},
		neighbors: map[TileID]map[TileID]bool{"island": {}},
	}

	gen := NewGenerator(catalog, 11)
	gen.SetMaxAttempts(7)

	tiles, err := gen.GenerateChunk(Coord{0, 0}, 2)
	if tiles != nil {
		t.Error("GenerateChunk() returned a grid despite unsatisfiable rules")
	}
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("GenerateChunk() error = %v, want ErrNoSolution", err)
	}
}

func TestUnsatisfiableRulesSolvableAtSizeOne(t *testing.T) {
	// With no neighbors in the grid, the adjacency table never applies.
	catalog := &testCatalog{
		weights:   map[TileID]float64{"island": 1},
		neighbors: map[TileID]map[TileID]bool{"island": {}},
	}

	tiles, err := NewGenerator(catalog, 11).GenerateChunk(Coord{0, 0}, 1)
	if err != nil {
		t.Fatalf("GenerateChunk() failed: %v", err)
	}
	if tiles[Coord{0, 0}] != "island" {
		t.Errorf("tile = %q, want %q", tiles[Coord{0, 0}], "island")
	}
}

func TestAsymmetricRulesCheckedBothWays(t *testing.T) {
	// "a" claims "b" as an allowed neighbor but not vice versa. The mutual
	// check must keep them apart, so every chunk is uniform.
	catalog := &testCatalog{
		weights: map[TileID]float64{"a": 1, "b": 1},
		neighbors: map[TileID]map[TileID]bool{
			"a": {"a": true, "b": true},
			"b": {"b": true},
		},
	}

	for _, seed := range []int64{1, 42, 100, 255, 1000} {
		tiles, err := NewGenerator(catalog, seed).GenerateChunk(Coord{0, 0}, 5)
		if err != nil {
			t.Fatalf("seed %d: GenerateChunk() failed: %v", seed, err)
		}

		first := tiles[Coord{0, 0}]
		for coord, id := range tiles {
			if id != first {
				t.Errorf("seed %d: mixed tiles %q and %q at (%d,%d) despite one-way rule",
					seed, first, id, coord.X, coord.Y)
			}
		}
	}
}

func TestGenerateChunkMultipleSeeds(t *testing.T) {
	catalog := terrainCatalog()
	seeds := []int64{1, 42, 100, 255, 1000, 5000, 9999}

	for _, seed := range seeds {
		tiles, err := NewGenerator(catalog, seed).GenerateChunk(Coord{0, 0}, 10)
		if err != nil {
			t.Fatalf("seed %d: GenerateChunk() failed: %v", seed, err)
		}
		if len(tiles) != 100 {
			t.Errorf("seed %d: len(tiles) = %d, want 100", seed, len(tiles))
		}
		for coord, id := range tiles {
			for _, dir := range AllDirections() {
				neighborID, ok := tiles[coord.Neighbor(dir)]
				if !ok {
					continue
				}
				if !catalog.NeighborsAllowed(id)[neighborID] ||
					!catalog.NeighborsAllowed(neighborID)[id] {
					t.Fatalf("seed %d: invalid pair %q/%q at (%d,%d)",
						seed, id, neighborID, coord.X, coord.Y)
				}
			}
		}
	}
}
