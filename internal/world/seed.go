package world

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/quietriver/terragen/internal/wfc"
)

// ChunkSeed derives the generation seed for a chunk from the world seed and
// the chunk's origin. BLAKE2b mixing keeps nearby origins from producing
// correlated rand streams, which an additive scheme would.
func ChunkSeed(worldSeed int64, origin wfc.Coord) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(worldSeed))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(origin.X)))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(int64(origin.Y)))

	sum := blake2b.Sum256(buf[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
