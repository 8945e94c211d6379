package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2000.0, cfg.Physics.Repulsion)
	assert.Equal(t, 100.0, cfg.Physics.RestLength)
	assert.Equal(t, 0.02, cfg.Physics.Stiffness)
	assert.Equal(t, 0.5, cfg.Physics.TimeStep)
	assert.Equal(t, 0.9, cfg.Physics.Damping)
	assert.Equal(t, 0.85, cfg.PageRank.Damping)
	assert.Equal(t, 20, cfg.PageRank.Iterations)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, ":8080", cfg.Listen)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
physics:
  repulsion: 1500
  damping: 0.8
pagerank:
  iterations: 40
listen: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, cfg.Physics.Repulsion)
	assert.Equal(t, 0.8, cfg.Physics.Damping)
	assert.Equal(t, 40, cfg.PageRank.Iterations)
	assert.Equal(t, ":9090", cfg.Listen)

	// Untouched fields keep their defaults.
	assert.Equal(t, 100.0, cfg.Physics.RestLength)
	assert.Equal(t, 0.85, cfg.PageRank.Damping)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics: ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_CollectsViolations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Repulsion = -1
	cfg.PageRank.Damping = 1.5
	cfg.PageRank.Iterations = 0
	cfg.Listen = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "physics.repulsion")
	assert.Contains(t, err.Error(), "pagerank.damping")
	assert.Contains(t, err.Error(), "pagerank.iterations")
	assert.Contains(t, err.Error(), "listen")
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "physics:\n  time_step: -0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
