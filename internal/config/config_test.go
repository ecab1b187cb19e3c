package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.World.ChunkSize != 16 {
		t.Errorf("World.ChunkSize = %d, want 16", config.World.ChunkSize)
	}
	if config.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", config.Storage.Driver)
	}
	if config.WebSocket.ListenAddr != ":4500" {
		t.Errorf("WebSocket.ListenAddr = %q, want :4500", config.WebSocket.ListenAddr)
	}
	if config.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("WebSocket.MaxMessageSize = %d, want 4096", config.WebSocket.MaxMessageSize)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() on missing file failed: %v", err)
	}

	if config.World.ChunkSize != 16 {
		t.Errorf("World.ChunkSize = %d on missing file, want default 16", config.World.ChunkSize)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	contents := `world:
  seed: 12345
  chunk_size: 32
  max_attempts: 50
  catalog_path: data/tiles.yaml
storage:
  driver: postgres
  dsn: "host=localhost dbname=terragen sslmode=disable"
websocket:
  listen_addr: ":9000"
  allowed_origins: ["https://map.example.com"]
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.World.Seed != 12345 {
		t.Errorf("World.Seed = %d, want 12345", config.World.Seed)
	}
	if config.World.ChunkSize != 32 {
		t.Errorf("World.ChunkSize = %d, want 32", config.World.ChunkSize)
	}
	if config.Storage.Driver != "postgres" {
		t.Errorf("Storage.Driver = %q, want postgres", config.Storage.Driver)
	}
	if config.WebSocket.ListenAddr != ":9000" {
		t.Errorf("WebSocket.ListenAddr = %q, want :9000", config.WebSocket.ListenAddr)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("world: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err == nil {
		t.Error("LoadConfig() on malformed YAML should return an error")
	}
	if config == nil || config.World.ChunkSize != 16 {
		t.Error("LoadConfig() should fall back to defaults on parse error")
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		host    string
		want    bool
	}{
		{"same origin", nil, "http://localhost:4500", "localhost:4500", true},
		{"no origin header", nil, "", "localhost:4500", true},
		{"cross origin rejected", nil, "http://evil.example.com", "localhost:4500", false},
		{"wildcard", []string{"*"}, "http://anywhere.example.com", "localhost:4500", true},
		{"exact match", []string{"https://map.example.com"}, "https://map.example.com", "localhost:4500", true},
		{"exact mismatch", []string{"https://map.example.com"}, "https://other.example.com", "localhost:4500", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := WebSocketConfig{AllowedOrigins: tc.allowed}
			if got := cfg.IsOriginAllowed(tc.origin, tc.host); got != tc.want {
				t.Errorf("IsOriginAllowed(%q, %q) = %v, want %v", tc.origin, tc.host, got, tc.want)
			}
		})
	}
}
