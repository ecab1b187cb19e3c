package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quietriver/terragen/internal/catalog"
	"github.com/quietriver/terragen/internal/world"
)

func main() {
	catalogFile := flag.String("catalog", "", "Path to tile catalog YAML file (empty for built-in set)")
	seed := flag.Int64("seed", 0, "World seed (default: random based on current time)")
	chunkX := flag.Int("x", 0, "Chunk X coordinate of the map's south-west corner")
	chunkY := flag.Int("y", 0, "Chunk Y coordinate of the map's south-west corner")
	width := flag.Int("width", 2, "Map width in chunks")
	height := flag.Int("height", 2, "Map height in chunks")
	chunkSize := flag.Int("size", world.DefaultChunkSize, "Chunk size in tiles")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	saveFile := flag.String("save", "", "Save generated chunks to a world YAML file")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	worldSeed := *seed
	if worldSeed == 0 {
		worldSeed = time.Now().UnixNano()
	}

	tiles := catalog.Default()
	if *catalogFile != "" {
		loaded, err := catalog.LoadFromYAML(*catalogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		tiles = loaded
	}

	w := world.NewWorld(tiles, worldSeed, *chunkSize)

	for cy := *chunkY; cy < *chunkY+*height; cy++ {
		for cx := *chunkX; cx < *chunkX+*width; cx++ {
			if _, err := w.ChunkAt(cx, cy); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating chunk (%d, %d): %v\n", cx, cy, err)
				os.Exit(1)
			}
		}
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("Terrain Map (Seed: %d)\n", worldSeed))
	output.WriteString(fmt.Sprintf("Chunks: (%d, %d) to (%d, %d), %d tiles per chunk side\n",
		*chunkX, *chunkY, *chunkX+*width-1, *chunkY+*height-1, *chunkSize))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")

	renderMap(&output, w, tiles, *chunkX, *chunkY, *width, *height)

	if *showLegend {
		output.WriteString(legend(tiles))
	}

	if *saveFile != "" {
		if err := w.SaveToYAML(*saveFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving world file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("World saved to %s\n", *saveFile)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

// renderMap prints one character per tile, north at the top.
func renderMap(output *strings.Builder, w *world.World, tiles *catalog.Catalog, chunkX, chunkY, width, height int) {
	size := w.ChunkSize()
	minX := chunkX * size
	maxX := (chunkX+width)*size - 1
	minY := chunkY * size
	maxY := (chunkY+height)*size - 1

	for y := maxY; y >= minY; y-- {
		for x := minX; x <= maxX; x++ {
			tile, err := w.TileAt(x, y)
			if err != nil {
				output.WriteString("?")
				continue
			}
			output.WriteString(tiles.Symbol(tile))
		}
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

func legend(tiles *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("Legend:\n")
	for _, id := range tiles.TileIDs() {
		b.WriteString(fmt.Sprintf("  [%s] %s (weight %.1f)\n", tiles.Symbol(id), tiles.Name(id), tiles.Weight(id)))
	}
	return b.String()
}
