package world

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quietriver/terragen/internal/wfc"
)

// WorldData represents the serialized world for YAML persistence
type WorldData struct {
	Seed      int64       `yaml:"seed"`
	ChunkSize int         `yaml:"chunk_size"`
	SavedAt   time.Time   `yaml:"saved_at"`
	Chunks    []ChunkData `yaml:"chunks"`
}

// ChunkData represents a serialized chunk
type ChunkData struct {
	OriginX     int        `yaml:"origin_x"`
	OriginY     int        `yaml:"origin_y"`
	Size        int        `yaml:"size"`
	Seed        int64      `yaml:"seed"`
	GeneratedAt time.Time  `yaml:"generated_at"`
	Tiles       []TileData `yaml:"tiles"`
}

// TileData represents a single serialized tile
type TileData struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Tile string `yaml:"tile"`
}

// SaveToYAML writes all cached chunks to a YAML file.
func (w *World) SaveToYAML(filename string) error {
	w.mu.RLock()
	data := WorldData{
		Seed:      w.Seed,
		ChunkSize: w.chunkSize,
		SavedAt:   time.Now(),
		Chunks:    make([]ChunkData, 0, len(w.chunks)),
	}
	for _, chunk := range w.chunks {
		data.Chunks = append(data.Chunks, serializeChunk(chunk))
	}
	w.mu.RUnlock()

	// Stable chunk order for diffable files
	sort.Slice(data.Chunks, func(i, j int) bool {
		if data.Chunks[i].OriginY != data.Chunks[j].OriginY {
			return data.Chunks[i].OriginY < data.Chunks[j].OriginY
		}
		return data.Chunks[i].OriginX < data.Chunks[j].OriginX
	})

	yamlData, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("failed to marshal world data: %w", err)
	}

	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write world file: %w", err)
	}

	return nil
}

// LoadFromYAML merges chunks from a YAML file into the world's cache. The
// file's seed must match the world's seed, otherwise the stored tiles would
// not correspond to what this world regenerates.
func (w *World) LoadFromYAML(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read world file: %w", err)
	}

	var worldData WorldData
	if err := yaml.Unmarshal(data, &worldData); err != nil {
		return fmt.Errorf("failed to parse world YAML: %w", err)
	}

	if worldData.Seed != w.Seed {
		return fmt.Errorf("world file seed %d does not match world seed %d",
			worldData.Seed, w.Seed)
	}

	for i := range worldData.Chunks {
		chunk := deserializeChunk(&worldData.Chunks[i])
		cx := floorDiv(chunk.Origin.X, w.chunkSize)
		cy := floorDiv(chunk.Origin.Y, w.chunkSize)
		w.SetChunk(cx, cy, chunk)
	}

	return nil
}

// serializeChunk converts a Chunk to ChunkData with tiles in row-major order.
func serializeChunk(chunk *Chunk) ChunkData {
	chunkData := ChunkData{
		OriginX:     chunk.Origin.X,
		OriginY:     chunk.Origin.Y,
		Size:        chunk.Size,
		Seed:        chunk.Seed,
		GeneratedAt: chunk.GeneratedAt,
		Tiles:       make([]TileData, 0, len(chunk.Tiles)),
	}

	for y := chunk.Origin.Y; y < chunk.Origin.Y+chunk.Size; y++ {
		for x := chunk.Origin.X; x < chunk.Origin.X+chunk.Size; x++ {
			if id, ok := chunk.TileAt(x, y); ok {
				chunkData.Tiles = append(chunkData.Tiles, TileData{X: x, Y: y, Tile: string(id)})
			}
		}
	}

	return chunkData
}

// deserializeChunk converts ChunkData back to a Chunk.
func deserializeChunk(data *ChunkData) *Chunk {
	tiles := make(map[wfc.Coord]wfc.TileID, len(data.Tiles))
	for _, tile := range data.Tiles {
		tiles[wfc.Coord{X: tile.X, Y: tile.Y}] = wfc.TileID(tile.Tile)
	}

	return &Chunk{
		Origin:      wfc.Coord{X: data.OriginX, Y: data.OriginY},
		Size:        data.Size,
		Seed:        data.Seed,
		GeneratedAt: data.GeneratedAt,
		Tiles:       tiles,
	}
}
