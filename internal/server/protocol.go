package server

import (
	"encoding/json"

	"github.com/quietriver/terragen/internal/logger"
	"github.com/quietriver/terragen/internal/world"
)

// Request is a client message. Type selects the operation:
//
//	chunk - fetch the chunk at chunk coordinate (x, y)
//	tile  - fetch the single tile at world coordinate (x, y)
//	info  - fetch world metadata
type Request struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// ChunkResponse carries a full chunk. Tiles is indexed [row][col], rows
// ordered south to north from the chunk origin.
type ChunkResponse struct {
	Type   string     `json:"type"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Origin [2]int     `json:"origin"`
	Size   int        `json:"size"`
	Seed   int64      `json:"seed"`
	Tiles  [][]string `json:"tiles"`
}

type TileResponse struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Tile string `json:"tile"`
}

type InfoResponse struct {
	Type      string `json:"type"`
	Seed      int64  `json:"seed"`
	ChunkSize int    `json:"chunk_size"`
	Chunks    int    `json:"chunks"`
}

type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorResponse(message string) ErrorResponse {
	return ErrorResponse{Type: "error", Message: message}
}

// handleRequest decodes a client message and produces the response payload.
func (s *Server) handleRequest(data []byte) any {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("invalid request: " + err.Error())
	}

	switch req.Type {
	case "chunk":
		return s.handleChunkRequest(req)
	case "tile":
		return s.handleTileRequest(req)
	case "info":
		return InfoResponse{
			Type:      "info",
			Seed:      s.world.Seed,
			ChunkSize: s.world.ChunkSize(),
			Chunks:    s.world.ChunkCount(),
		}
	default:
		return errorResponse("unknown request type: " + req.Type)
	}
}

func (s *Server) handleChunkRequest(req Request) any {
	chunk, err := s.world.ChunkAt(req.X, req.Y)
	if err != nil {
		logger.Error("Chunk generation failed", "chunk_x", req.X, "chunk_y", req.Y, "error", err)
		return errorResponse("chunk generation failed: " + err.Error())
	}
	return chunkResponse(req.X, req.Y, chunk)
}

func (s *Server) handleTileRequest(req Request) any {
	tile, err := s.world.TileAt(req.X, req.Y)
	if err != nil {
		logger.Error("Tile lookup failed", "x", req.X, "y", req.Y, "error", err)
		return errorResponse("tile lookup failed: " + err.Error())
	}
	return TileResponse{Type: "tile", X: req.X, Y: req.Y, Tile: string(tile)}
}

func chunkResponse(cx, cy int, chunk *world.Chunk) ChunkResponse {
	tiles := make([][]string, chunk.Size)
	for row := 0; row < chunk.Size; row++ {
		tiles[row] = make([]string, chunk.Size)
		for col := 0; col < chunk.Size; col++ {
			tile, _ := chunk.TileAt(chunk.Origin.X+col, chunk.Origin.Y+row)
			tiles[row][col] = string(tile)
		}
	}
	return ChunkResponse{
		Type:   "chunk",
		X:      cx,
		Y:      cy,
		Origin: [2]int{chunk.Origin.X, chunk.Origin.Y},
		Size:   chunk.Size,
		Seed:   chunk.Seed,
		Tiles:  tiles,
	}
}
