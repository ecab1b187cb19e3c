// Package config loads server-wide configuration from YAML with sensible
// defaults when the file is absent.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quietriver/terragen/internal/store"
)

// ServerConfig holds server-wide configuration settings.
type ServerConfig struct {
	World     WorldConfig     `yaml:"world"`
	Storage   store.Config    `yaml:"storage"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// WorldConfig holds terrain generation settings.
type WorldConfig struct {
	// Seed is the world generation seed. 0 means pick one at startup.
	Seed int64 `yaml:"seed"`

	// ChunkSize is the edge length of generated chunks in tiles.
	ChunkSize int `yaml:"chunk_size"`

	// MaxAttempts caps the whole-chunk solve attempts before generation
	// fails. 0 uses the generator default.
	MaxAttempts int `yaml:"max_attempts"`

	// CatalogPath points at the tile catalog YAML file. Empty uses the
	// built-in catalog.
	CatalogPath string `yaml:"catalog_path"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// ListenAddr is the address the chunk service listens on.
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a ServerConfig with working defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		World: WorldConfig{
			Seed:      0,
			ChunkSize: 16,
		},
		Storage: store.Config{
			Driver: "sqlite",
			Path:   "data/terragen.db",
		},
		WebSocket: WebSocketConfig{
			ListenAddr:     ":4500",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
	}
}

// LoadConfig loads server configuration from a YAML file.
// If the file doesn't exist or can't be parsed, returns default config.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" {
			return true
		}
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
