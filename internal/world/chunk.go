// Package world manages generated terrain chunks: on-demand generation,
// caching, per-chunk seed derivation, and persistence.
package world

import (
	"fmt"
	"time"

	"github.com/quietriver/terragen/internal/wfc"
)

// Chunk is one generated size x size square of terrain. Chunks are immutable
// once generated; regenerating with the same world seed yields the same tiles.
type Chunk struct {
	Origin      wfc.Coord                // World coordinate of the top-left tile
	Size        int                      // Edge length in tiles
	Seed        int64                    // Derived seed this chunk was generated with
	GeneratedAt time.Time                // When the chunk was first generated
	Tiles       map[wfc.Coord]wfc.TileID // World coordinate -> tile
}

// TileAt returns the tile at the given world coordinate, if it lies within
// this chunk.
func (c *Chunk) TileAt(x, y int) (wfc.TileID, bool) {
	id, ok := c.Tiles[wfc.Coord{X: x, Y: y}]
	return id, ok
}

// Contains reports whether the world coordinate lies within this chunk.
func (c *Chunk) Contains(x, y int) bool {
	return x >= c.Origin.X && x < c.Origin.X+c.Size &&
		y >= c.Origin.Y && y < c.Origin.Y+c.Size
}

// ChunkID generates a stable identifier for a chunk by its chunk coordinate.
func ChunkID(cx, cy int) string {
	return fmt.Sprintf("chunk_%d_%d", cx, cy)
}
