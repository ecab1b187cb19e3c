package wfc

// Catalog supplies the universe of tiles the generator draws from: the tile
// identifiers, a positive weight per tile, and the adjacency table.
//
// The adjacency table is taken as authored and may be asymmetric. The
// generator checks both directions when pruning, so an implementation does
// not need to pre-symmetrize its rules.
type Catalog interface {
	// TileIDs returns every tile identifier in the catalog.
	TileIDs() []TileID

	// Weight returns the selection weight for a tile. Weights must be > 0.
	Weight(id TileID) float64

	// NeighborsAllowed returns the set of tiles permitted as a direct
	// neighbor of the given tile.
	NeighborsAllowed(id TileID) map[TileID]bool
}
