package wfc

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var (
	ErrContradiction = errors.New("wfc: contradiction - no valid tiles for cell")
	ErrInvalidSize   = errors.New("wfc: invalid chunk size")
	ErrNoSolution    = errors.New("wfc: failed to find valid solution")
)

// entropyNoise is the magnitude of the random perturbation added during
// cell selection. It breaks exact entropy ties without coordinate bias and
// is small enough not to override genuine entropy differences.
const entropyNoise = 1e-6

// DefaultMaxAttempts bounds the number of whole-chunk solve attempts before
// generation gives up. Hitting the bound indicates a malformed adjacency
// table rather than bad luck.
const DefaultMaxAttempts = 100

// Generator implements the Wave Function Collapse algorithm over a bounded
// square of cells. It owns a single seeded random stream that is consumed in
// a strict order (selection tie-breaks, then collapse draws), so two
// generators built with the same seed and catalog produce identical chunks.
type Generator struct {
	catalog     Catalog
	rng         *rand.Rand
	maxAttempts int
}

// NewGenerator creates a generator drawing tiles from the given catalog,
// with its random stream seeded deterministically.
func NewGenerator(catalog Catalog, seed int64) *Generator {
	return &Generator{
		catalog:     catalog,
		rng:         rand.New(rand.NewSource(seed)),
		maxAttempts: DefaultMaxAttempts,
	}
}

// SetMaxAttempts overrides the bound on whole-chunk solve attempts.
func (g *Generator) SetMaxAttempts(n int) {
	if n > 0 {
		g.maxAttempts = n
	}
}

// GenerateChunk fills the size x size square anchored at origin so that
// every 4-directionally adjacent pair of tiles is mutually allowed by the
// catalog's adjacency table.
//
// A contradiction during solving discards the whole grid and starts a fresh
// attempt with the random stream advanced. Only after maxAttempts failed
// attempts does an error cross the boundary; a partial or invalid chunk is
// never returned.
func (g *Generator) GenerateChunk(origin Coord, size int) (map[Coord]TileID, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		tiles, err := g.solve(origin, size)
		if err == nil {
			return tiles, nil
		}
		if !errors.Is(err, ErrContradiction) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("wfc: no valid chunk after %d attempts (%v): %w",
		g.maxAttempts, lastErr, ErrNoSolution)
}

// solve runs one full attempt: initialize, then repeatedly collapse the
// lowest-entropy cell and propagate until done or contradicted.
func (g *Generator) solve(origin Coord, size int) (map[Coord]TileID, error) {
	grid := newGrid(origin, size, g.catalog)

	for {
		cell := g.selectCell(grid)
		if cell == nil {
			break // every cell collapsed
		}

		g.collapse(cell)

		if err := g.propagate(grid.cells, cell.Coord); err != nil {
			return nil, err
		}
	}

	tiles := make(map[Coord]TileID, len(grid.cells))
	for coord, cell := range grid.cells {
		tiles[coord] = cell.Tile
	}
	return tiles, nil
}

// grid holds one attempt's cells plus a sorted coordinate list so selection
// visits cells in a fixed order. The grid lives for exactly one attempt.
type grid struct {
	cells  map[Coord]*Cell
	coords []Coord
}

func newGrid(origin Coord, size int, catalog Catalog) *grid {
	g := &grid{
		cells:  make(map[Coord]*Cell, size*size),
		coords: make([]Coord, 0, size*size),
	}
	for y := origin.Y; y < origin.Y+size; y++ {
		for x := origin.X; x < origin.X+size; x++ {
			coord := Coord{x, y}
			g.cells[coord] = NewCell(coord, catalog)
			g.coords = append(g.coords, coord)
		}
	}
	sort.Slice(g.coords, func(i, j int) bool {
		if g.coords[i].Y != g.coords[j].Y {
			return g.coords[i].Y < g.coords[j].Y
		}
		return g.coords[i].X < g.coords[j].X
	})
	return g
}

// selectCell returns the uncollapsed cell with the lowest entropy, or nil if
// all cells are collapsed. A small seeded perturbation is added per cell so
// exact ties don't always resolve to the lowest coordinate.
func (g *Generator) selectCell(gr *grid) *Cell {
	var best *Cell
	bestScore := math.MaxFloat64

	for _, coord := range gr.coords {
		cell := gr.cells[coord]
		if cell.Collapsed {
			continue
		}
		score := cell.Entropy(g.catalog) + g.rng.Float64()*entropyNoise
		if score < bestScore {
			bestScore = score
			best = cell
		}
	}

	return best
}

// collapse resolves the cell to a single tile via a weighted draw over its
// sorted candidates.
func (g *Generator) collapse(cell *Cell) {
	candidates := cell.CandidateList()

	total := 0.0
	for _, id := range candidates {
		total += g.catalog.Weight(id)
	}

	chosen := candidates[len(candidates)-1]
	r := g.rng.Float64() * total
	for _, id := range candidates {
		r -= g.catalog.Weight(id)
		if r <= 0 {
			chosen = id
			break
		}
	}

	cell.Candidates = map[TileID]bool{chosen: true}
	cell.Tile = chosen
	cell.Collapsed = true
}

// propagate enforces arc consistency outward from the given coordinate. It
// keeps a FIFO work queue with an explicit queued set for O(1) membership
// checks, and requeues any neighbor whose candidate set shrank so the
// reduction cascades. An emptied candidate set aborts with ErrContradiction.
func (g *Generator) propagate(cells map[Coord]*Cell, start Coord) error {
	queue := []Coord{start}
	queued := map[Coord]bool{start: true}

	for len(queue) > 0 {
		coord := queue[0]
		queue = queue[1:]
		queued[coord] = false

		cell := cells[coord]

		for _, dir := range AllDirections() {
			ncoord := coord.Neighbor(dir)
			neighbor, ok := cells[ncoord]
			if !ok || neighbor.Collapsed {
				continue
			}

			changed := false
			for _, id := range neighbor.CandidateList() {
				if !g.supported(id, cell) {
					delete(neighbor.Candidates, id)
					changed = true
				}
			}

			if len(neighbor.Candidates) == 0 {
				return fmt.Errorf("cell (%d,%d): %w", ncoord.X, ncoord.Y, ErrContradiction)
			}

			if changed && !queued[ncoord] {
				queue = append(queue, ncoord)
				queued[ncoord] = true
			}
		}
	}

	return nil
}

// supported reports whether tile id is still viable next to the given cell:
// some candidate of the cell must allow id as a neighbor AND be allowed as a
// neighbor of id. The table is not assumed symmetric, so both directions are
// checked explicitly.
func (g *Generator) supported(id TileID, cell *Cell) bool {
	allowedByID := g.catalog.NeighborsAllowed(id)
	for candidate := range cell.Candidates {
		if allowedByID[candidate] && g.catalog.NeighborsAllowed(candidate)[id] {
			return true
		}
	}
	return false
}
