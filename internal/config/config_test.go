package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate(), "значения по умолчанию должны проходить проверку")
	assert.Equal(t, 5.0, cfg.World.VoxelSize)
	assert.Equal(t, 10, cfg.World.ChunkSize)
	assert.Equal(t, 12, cfg.World.DrawDistance)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	data := []byte("world:\n  seed: 42\n  draw_distance: 3\ncombat:\n  fire_cooldown: 1.5\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, 3, cfg.World.DrawDistance)
	assert.Equal(t, 1.5, cfg.Combat.FireCooldown)
	assert.Equal(t, 10, cfg.World.ChunkSize, "незаданные поля остаются по умолчанию")
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	t.Setenv("GAME_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  voxel_size: 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "нулевой размер вокселя недопустим")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMetricsPortFallback(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("GAME_METRICS_PORT", "9100")
	assert.Equal(t, 9100, s.GetMetricsPort())

	s.MetricsPort = 9200
	assert.Equal(t, 9200, s.GetMetricsPort(), "значение из конфига приоритетнее env")
}
