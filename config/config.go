// Package config loads and validates the YAML configuration file,
// following the teacher's config package shape: a DefaultConfig, a Load
// that merges a found/given file onto the defaults, path expansion, and
// validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	KBRoot   string         `yaml:"kb_root"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Embedder EmbedderConfig `yaml:"embedder"`
	MCP      MCPConfig      `yaml:"mcp"`
}

// ChunkingConfig holds chunker sizing. It is loaded and validated, but the
// commands build kbse.Service from KBRoot alone, which always uses
// kbse.DefaultChunkSize and kbse.DefaultOverlap.
type ChunkingConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size"`
	Overlap      int `yaml:"overlap"`
}

// EmbedderConfig holds embedding-backend settings. Nothing reads them: the
// transformer is used whenever it loads, and the onnx build takes its model
// path from the KBSE_ONNX_MODEL_PATH environment variable.
type EmbedderConfig struct {
	PreferTransformer bool   `yaml:"prefer_transformer"`
	ONNXModelPath     string `yaml:"onnx_model_path"`
}

// MCPConfig holds the MCP stdio server's settings.
type MCPConfig struct {
	ServerName string `yaml:"server_name"`
}

// DefaultConfig returns the built-in defaults, per spec.md §3/§4.5's
// default KB root and §4.3's chunking constants.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		KBRoot: filepath.Join(homeDir, ".meeseeks", "knowledge"),
		Chunking: ChunkingConfig{
			MaxChunkSize: 500,
			Overlap:      50,
		},
		Embedder: EmbedderConfig{
			PreferTransformer: true,
			ONNXModelPath:     "",
		},
		MCP: MCPConfig{
			ServerName: "kbse",
		},
	}
}

// Load reads configuration from path, or from a discovered default
// location when path is empty, merging onto DefaultConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		path = findConfigFile()
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	homeDir, _ := os.UserHomeDir()

	locations := []string{
		"kbse.yaml",
		".kbse.yaml",
		filepath.Join(homeDir, ".config", "kbse", "config.yaml"),
		filepath.Join(homeDir, ".meeseeks", "config.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

func (c *Config) expandPaths() {
	c.KBRoot = expandPath(c.KBRoot)
	c.Embedder.ONNXModelPath = expandPath(c.Embedder.ONNXModelPath)
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		path = filepath.Join(homeDir, path[1:])
	}
	return os.ExpandEnv(path)
}

// Validate checks the configuration for obviously unusable values.
func (c *Config) Validate() error {
	if c.KBRoot == "" {
		return fmt.Errorf("kb_root cannot be empty")
	}
	if c.Chunking.MaxChunkSize <= 0 {
		return fmt.Errorf("chunking.max_chunk_size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.MaxChunkSize {
		return fmt.Errorf("chunking.overlap must be non-negative and smaller than max_chunk_size")
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
