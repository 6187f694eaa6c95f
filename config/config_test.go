package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.KBRoot)
	assert.Positive(t, cfg.Chunking.MaxChunkSize)
	assert.Less(t, cfg.Chunking.Overlap, cfg.Chunking.MaxChunkSize)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		expectErr bool
	}{
		{
			name:      "valid config",
			modify:    func(c *Config) {},
			expectErr: false,
		},
		{
			name: "empty kb root",
			modify: func(c *Config) {
				c.KBRoot = ""
			},
			expectErr: true,
		},
		{
			name: "non-positive chunk size",
			modify: func(c *Config) {
				c.Chunking.MaxChunkSize = 0
			},
			expectErr: true,
		},
		{
			name: "overlap not smaller than chunk size",
			modify: func(c *Config) {
				c.Chunking.MaxChunkSize = 100
				c.Chunking.Overlap = 100
			},
			expectErr: true,
		},
		{
			name: "negative overlap",
			modify: func(c *Config) {
				c.Chunking.Overlap = -1
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kbse.yaml")

	cfg := DefaultConfig()
	cfg.KBRoot = filepath.Join(dir, "knowledge")
	cfg.Chunking.MaxChunkSize = 300

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, loaded.Chunking.MaxChunkSize)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	got := expandPath("~/knowledge")
	assert.Equal(t, filepath.Join(home, "knowledge"), got)
}
