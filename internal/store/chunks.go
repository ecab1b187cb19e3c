package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quietriver/terragen/internal/wfc"
	"github.com/quietriver/terragen/internal/world"
)

// SaveChunk persists a generated chunk, replacing any previous copy stored
// for the same world seed and origin.
func (s *Store) SaveChunk(worldSeed int64, chunk *world.Chunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteChunk := s.qb.Build(
		`DELETE FROM chunks WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`)
	if _, err := tx.Exec(deleteChunk, worldSeed, chunk.Origin.X, chunk.Origin.Y); err != nil {
		return fmt.Errorf("failed to clear chunk row: %w", err)
	}

	deleteTiles := s.qb.Build(
		`DELETE FROM chunk_tiles WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`)
	if _, err := tx.Exec(deleteTiles, worldSeed, chunk.Origin.X, chunk.Origin.Y); err != nil {
		return fmt.Errorf("failed to clear chunk tiles: %w", err)
	}

	insertChunk := s.qb.Build(
		`INSERT INTO chunks (world_seed, origin_x, origin_y, size, chunk_seed, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := tx.Exec(insertChunk, worldSeed, chunk.Origin.X, chunk.Origin.Y,
		chunk.Size, chunk.Seed, chunk.GeneratedAt.Unix()); err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}

	insertTile := s.qb.Build(
		`INSERT INTO chunk_tiles (world_seed, origin_x, origin_y, x, y, tile)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	stmt, err := tx.Prepare(insertTile)
	if err != nil {
		return fmt.Errorf("failed to prepare tile insert: %w", err)
	}
	defer stmt.Close()

	for coord, tile := range chunk.Tiles {
		if _, err := stmt.Exec(worldSeed, chunk.Origin.X, chunk.Origin.Y,
			coord.X, coord.Y, string(tile)); err != nil {
			return fmt.Errorf("failed to insert tile (%d,%d): %w", coord.X, coord.Y, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk: %w", err)
	}
	return nil
}

// LoadChunk loads a stored chunk by world seed and origin. Returns (nil, nil)
// if no chunk is stored there.
func (s *Store) LoadChunk(worldSeed int64, origin wfc.Coord) (*world.Chunk, error) {
	query := s.qb.Build(
		`SELECT size, chunk_seed, generated_at FROM chunks
		 WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`)

	var size int
	var chunkSeed, generatedAt int64
	err := s.db.QueryRow(query, worldSeed, origin.X, origin.Y).
		Scan(&size, &chunkSeed, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chunk: %w", err)
	}

	tilesQuery := s.qb.Build(
		`SELECT x, y, tile FROM chunk_tiles
		 WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`)
	rows, err := s.db.Query(tilesQuery, worldSeed, origin.X, origin.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunk tiles: %w", err)
	}
	defer rows.Close()

	tiles := make(map[wfc.Coord]wfc.TileID, size*size)
	for rows.Next() {
		var x, y int
		var tile string
		if err := rows.Scan(&x, &y, &tile); err != nil {
			return nil, fmt.Errorf("failed to scan tile: %w", err)
		}
		tiles[wfc.Coord{X: x, Y: y}] = wfc.TileID(tile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunk tiles: %w", err)
	}

	if len(tiles) != size*size {
		return nil, fmt.Errorf("chunk at (%d,%d) has %d tiles, want %d",
			origin.X, origin.Y, len(tiles), size*size)
	}

	return &world.Chunk{
		Origin:      origin,
		Size:        size,
		Seed:        chunkSeed,
		GeneratedAt: time.Unix(generatedAt, 0),
		Tiles:       tiles,
	}, nil
}

// HasChunk reports whether a chunk is stored for the given origin.
func (s *Store) HasChunk(worldSeed int64, origin wfc.Coord) (bool, error) {
	query := s.qb.Build(
		`SELECT 1 FROM chunks WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`)

	var one int
	err := s.db.QueryRow(query, worldSeed, origin.X, origin.Y).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check chunk: %w", err)
	}
	return true, nil
}

// DeleteChunk removes a stored chunk and its tiles.
func (s *Store) DeleteChunk(worldSeed int64, origin wfc.Coord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queries := []string{
		`DELETE FROM chunk_tiles WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`,
		`DELETE FROM chunks WHERE world_seed = ? AND origin_x = ? AND origin_y = ?`,
	}
	for _, q := range queries {
		if _, err := tx.Exec(s.qb.Build(q), worldSeed, origin.X, origin.Y); err != nil {
			return fmt.Errorf("failed to delete chunk: %w", err)
		}
	}

	return tx.Commit()
}

// ChunkCount returns the number of chunks stored for a world seed.
func (s *Store) ChunkCount(worldSeed int64) (int, error) {
	query := s.qb.Build(`SELECT COUNT(*) FROM chunks WHERE world_seed = ?`)

	var count int
	if err := s.db.QueryRow(query, worldSeed).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
