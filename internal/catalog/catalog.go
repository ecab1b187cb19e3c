// Package catalog provides tile catalogs for terrain generation: the tile
// universe, per-tile weights, and the adjacency table consumed by the solver.
package catalog

import (
	"fmt"
	"sort"

	"github.com/quietriver/terragen/internal/wfc"
)

// TileDef describes one tile kind as authored in the catalog file.
type TileDef struct {
	Name string `yaml:"name"`
	// Symbol is the single character used for ASCII map rendering.
	Symbol string `yaml:"symbol,omitempty"`
	// Weight biases the collapse draw; must be positive.
	Weight float64 `yaml:"weight"`
	// Neighbors lists the tile ids permitted as a direct neighbor. The
	// list is taken as authored; the solver enforces mutuality, so an
	// asymmetric table simply means both sides must agree.
	Neighbors []string `yaml:"neighbors"`
}

// Catalog is an immutable tile catalog. It implements wfc.Catalog.
type Catalog struct {
	ids       []wfc.TileID
	defs      map[wfc.TileID]TileDef
	weights   map[wfc.TileID]float64
	neighbors map[wfc.TileID]map[wfc.TileID]bool
}

// New builds a catalog from tile definitions, validating that the table is
// well-formed: at least one tile, positive weights, and no references to
// unknown tiles.
func New(defs map[string]TileDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog has no tiles")
	}

	c := &Catalog{
		ids:       make([]wfc.TileID, 0, len(defs)),
		defs:      make(map[wfc.TileID]TileDef, len(defs)),
		weights:   make(map[wfc.TileID]float64, len(defs)),
		neighbors: make(map[wfc.TileID]map[wfc.TileID]bool, len(defs)),
	}

	for id, def := range defs {
		if def.Weight <= 0 {
			return nil, fmt.Errorf("tile %q: weight must be positive, got %g", id, def.Weight)
		}
		tileID := wfc.TileID(id)
		c.ids = append(c.ids, tileID)
		c.defs[tileID] = def
		c.weights[tileID] = def.Weight
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })

	for id, def := range defs {
		allowed := make(map[wfc.TileID]bool, len(def.Neighbors))
		for _, neighbor := range def.Neighbors {
			if _, ok := c.weights[wfc.TileID(neighbor)]; !ok {
				return nil, fmt.Errorf("tile %q: unknown neighbor %q", id, neighbor)
			}
			allowed[wfc.TileID(neighbor)] = true
		}
		c.neighbors[wfc.TileID(id)] = allowed
	}

	return c, nil
}

// TileIDs returns every tile id in sorted order.
func (c *Catalog) TileIDs() []wfc.TileID {
	ids := make([]wfc.TileID, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Weight returns the selection weight for a tile, or 0 for unknown tiles.
func (c *Catalog) Weight(id wfc.TileID) float64 {
	return c.weights[id]
}

// NeighborsAllowed returns the set of tiles permitted next to the given tile.
func (c *Catalog) NeighborsAllowed(id wfc.TileID) map[wfc.TileID]bool {
	return c.neighbors[id]
}

// Name returns the display name for a tile, falling back to its id.
func (c *Catalog) Name(id wfc.TileID) string {
	if def, ok := c.defs[id]; ok && def.Name != "" {
		return def.Name
	}
	return string(id)
}

// Symbol returns the single-character map symbol for a tile.
func (c *Catalog) Symbol(id wfc.TileID) string {
	if def, ok := c.defs[id]; ok && def.Symbol != "" {
		return def.Symbol
	}
	return "?"
}

// Len returns the number of tiles in the catalog.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Default returns the built-in overworld terrain catalog: a coastline
// gradient from deep water up to mountains.
func Default() *Catalog {
	defs := map[string]TileDef{
		"deep_water": {
			Name:      "Deep Water",
			Symbol:    "~",
			Weight:    0.6,
			Neighbors: []string{"deep_water", "water"},
		},
		"water": {
			Name:      "Water",
			Symbol:    "=",
			Weight:    1.0,
			Neighbors: []string{"deep_water", "water", "beach"},
		},
		"beach": {
			Name:      "Beach",
			Symbol:    ".",
			Weight:    0.8,
			Neighbors: []string{"water", "beach", "plains"},
		},
		"plains": {
			Name:      "Plains",
			Symbol:    ",",
			Weight:    2.5,
			Neighbors: []string{"beach", "plains", "forest", "hills"},
		},
		"forest": {
			Name:      "Forest",
			Symbol:    "T",
			Weight:    1.8,
			Neighbors: []string{"plains", "forest", "hills"},
		},
		"hills": {
			Name:      "Hills",
			Symbol:    "n",
			Weight:    1.0,
			Neighbors: []string{"plains", "forest", "hills", "mountain"},
		},
		"mountain": {
			Name:      "Mountain",
			Symbol:    "^",
			Weight:    0.6,
			Neighbors: []string{"hills", "mountain"},
		},
	}

	c, err := New(defs)
	if err != nil {
		// The built-in table is static; a validation failure here is a bug.
		panic(fmt.Sprintf("catalog: invalid default catalog: %v", err))
	}
	return c
}
