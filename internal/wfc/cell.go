package wfc

import (
	"math"
	"sort"
)

// Cell represents a single cell in the WFC grid during solving.
//
// Candidates only ever shrinks over the life of one solve attempt. A cell is
// collapsed exactly when Candidates is a singleton and Tile holds its sole
// member; an empty candidate set is a contradiction, never a valid state.
type Cell struct {
	Coord      Coord
	Candidates map[TileID]bool
	Collapsed  bool
	Tile       TileID
}

// NewCell creates a cell in full superposition over the catalog's tiles.
func NewCell(coord Coord, catalog Catalog) *Cell {
	candidates := make(map[TileID]bool)
	for _, id := range catalog.TileIDs() {
		candidates[id] = true
	}
	return &Cell{
		Coord:      coord,
		Candidates: candidates,
	}
}

// Entropy returns the Shannon entropy of the weight-normalized distribution
// over the cell's remaining candidates. A singleton domain is defined as
// exactly 0 rather than computed.
func (c *Cell) Entropy(catalog Catalog) float64 {
	if len(c.Candidates) <= 1 {
		return 0
	}

	total := 0.0
	for id := range c.Candidates {
		total += catalog.Weight(id)
	}
	if total <= 0 {
		return 0
	}

	entropy := 0.0
	for id := range c.Candidates {
		p := catalog.Weight(id) / total
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

// CandidateList returns the remaining candidates in sorted order, so callers
// that consume random draws iterate deterministically.
func (c *Cell) CandidateList() []TileID {
	list := make([]TileID, 0, len(c.Candidates))
	for id := range c.Candidates {
		list = append(list, id)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
