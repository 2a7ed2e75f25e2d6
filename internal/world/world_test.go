package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-tanks/internal/vec"
)

func newTestStreamer(drawDistance int) (*Streamer, *Index, *Generator) {
	grid := Grid{VoxelSize: 5, ChunkSize: 4, HeightLevels: 4}
	cfg := testWorldConfig()
	ix := NewIndex(grid)
	gen := NewGenerator(grid, cfg)
	return NewStreamer(ix, gen, drawDistance), ix, gen
}

func TestStreamer_LoadsWindow(t *testing.T) {
	s, ix, _ := newTestStreamer(1)

	res := s.Update(mgl64.Vec3{1, 0, 1})
	require.True(t, res.Changed)
	assert.Len(t, res.Loaded, 9, "окно радиуса 1 содержит 9 чанков")
	assert.Empty(t, res.Evicted)

	again := s.Update(mgl64.Vec3{2, 0, 3})
	assert.False(t, again.Changed, "тот же чанк якоря: без изменений")
	assert.Len(t, ix.LoadedChunks(), 9)
}

func TestStreamer_Closure(t *testing.T) {
	s, ix, gen := newTestStreamer(1)
	s.Update(mgl64.Vec3{0, 0, 0})

	// Перемещаемся на 3 чанка по X: старое окно полностью уходит
	span := 5.0 * 4
	res := s.Update(mgl64.Vec3{3*span + 1, 0, 1})
	require.True(t, res.Changed)
	assert.Len(t, res.Evicted, 9)

	anchor, ok := s.Anchor()
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 3, Y: 0}, anchor)

	expected := 0
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			data := gen.Generate(3+dx, dz)
			for _, gv := range data.Voxels {
				expected++
				assert.True(t, ix.Occupied(gv.Coord), "воксель окна присутствует: %+v", gv.Coord)
			}
		}
	}
	assert.Equal(t, expected, ix.Len(), "вне окна вокселей нет")

	for _, cc := range res.Evicted {
		assert.False(t, ix.ChunkLoaded(cc))
		data := gen.Generate(cc.X, cc.Y)
		for _, gv := range data.Voxels {
			assert.False(t, ix.Occupied(gv.Coord))
		}
	}
}

func TestStreamer_ResetForcesRecompute(t *testing.T) {
	s, ix, _ := newTestStreamer(0)
	s.Update(mgl64.Vec3{})
	ix.Clear()
	s.Reset()

	res := s.Update(mgl64.Vec3{})
	assert.True(t, res.Changed)
	assert.Len(t, res.Loaded, 1)
	assert.True(t, s.InWindow(vec.Vec2{}))
	assert.False(t, s.InWindow(vec.Vec2{X: 1}))
}
