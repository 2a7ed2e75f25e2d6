package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

func TestMutator_PushAlongX(t *testing.T) {
	ix := flatIndex(0)
	m := NewMutator(ix)
	src := vec.Vec3{X: 2, Y: 1, Z: 2}
	require.NoError(t, ix.Insert(src, NewVoxel(block.Snow, 0)))
	before := ix.Len()

	dest, ok := m.AttemptPush(src, mgl64.Vec3{1, 0, 0.2})
	require.True(t, ok, "назначение свободно и имеет опору")
	assert.Equal(t, vec.Vec3{X: 3, Y: 1, Z: 2}, dest)
	assert.False(t, ix.Occupied(src))
	v, ok := ix.Get(dest)
	require.True(t, ok)
	assert.Equal(t, block.Snow, v.Material, "материал сохраняется")
	assert.Equal(t, before, ix.Len(), "число вокселей сохраняется")
	assert.Equal(t, 0.0, ix.HeightAt(2, 2))
	assert.Equal(t, 5.0, ix.HeightAt(3, 2))
}

func TestMutator_PushWithoutSupportFails(t *testing.T) {
	ix := flatIndex(0)
	m := NewMutator(ix)
	src := vec.Vec3{X: 2, Y: 1, Z: 2}
	require.NoError(t, ix.Insert(src, NewVoxel(block.Snow, 0)))
	_, ok := ix.Remove(vec.Vec3{X: 3, Y: 0, Z: 2})
	require.True(t, ok)
	ix.DrainDelta()

	_, pushed := m.AttemptPush(src, mgl64.Vec3{1, 0, 0})
	assert.False(t, pushed, "без опоры под назначением сдвиг запрещён")
	assert.True(t, ix.Occupied(src), "источник не тронут")
	assert.False(t, ix.Occupied(vec.Vec3{X: 3, Y: 1, Z: 2}), "назначение не тронуто")
	assert.Nil(t, ix.DrainDelta(), "отказ не меняет индекс")
}

func TestMutator_PushRejections(t *testing.T) {
	ix := flatIndex(0)
	m := NewMutator(ix)
	rock := vec.Vec3{X: 5, Y: 1, Z: 5}
	snow := vec.Vec3{X: 5, Y: 1, Z: 6}
	require.NoError(t, ix.Insert(rock, NewVoxel(block.Rock, 0)))
	require.NoError(t, ix.Insert(snow, NewVoxel(block.Snow, 0)))

	_, ok := m.AttemptPush(rock, mgl64.Vec3{1, 0, 0})
	assert.False(t, ok, "камень не толкается")

	_, ok = m.AttemptPush(snow, mgl64.Vec3{0, 0, -1})
	assert.False(t, ok, "назначение занято камнем")

	_, ok = m.AttemptPush(snow, mgl64.Vec3{0, 1, 0})
	assert.False(t, ok, "вертикальный сдвиг невозможен")

	edge := vec.Vec3{X: 9, Y: 1, Z: 3}
	require.NoError(t, ix.Insert(edge, NewVoxel(block.Snow, 0)))
	_, ok = m.AttemptPush(edge, mgl64.Vec3{1, 0, 0})
	assert.False(t, ok, "соседний чанк не загружен")
}

func TestSnapPushDirection(t *testing.T) {
	step, ok := SnapPushDirection(mgl64.Vec3{-3, 0, 1})
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: -1}, step)

	step, ok = SnapPushDirection(mgl64.Vec3{1, 0, 1})
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{Z: 1}, step, "при равенстве выбирается ось Z")

	_, ok = SnapPushDirection(mgl64.Vec3{})
	assert.False(t, ok)
}

func TestMutator_PushAcrossChunkBorder(t *testing.T) {
	ix := flatIndex(1)
	m := NewMutator(ix)
	src := vec.Vec3{X: 9, Y: 1, Z: 4}
	require.NoError(t, ix.Insert(src, NewVoxel(block.Snow, 0)))

	dest, ok := m.AttemptPush(src, mgl64.Vec3{1, 0, 0})
	require.True(t, ok)

	right, _ := ix.Chunk(vec.Vec2{X: 1, Y: 0})
	_, owned := right.Keys[dest]
	assert.True(t, owned, "владение переходит к чанку назначения")

	require.True(t, ix.UnloadChunk(vec.Vec2{X: 1, Y: 0}))
	assert.False(t, ix.Occupied(dest), "воксель выгружается вместе с новым чанком")
}

func TestMutator_Destroy(t *testing.T) {
	ix := flatIndex(0)
	m := NewMutator(ix)
	rock := vec.Vec3{X: 4, Y: 1, Z: 4}
	core := vec.Vec3{X: 6, Y: 1, Z: 6}
	require.NoError(t, ix.Insert(rock, NewVoxel(block.Rock, 0)))
	require.NoError(t, ix.Insert(core, NewVoxel(block.Core, 0)))

	mat, err := m.Destroy(rock)
	require.NoError(t, err)
	assert.Equal(t, block.Rock, mat)
	assert.Equal(t, 0.0, ix.HeightAt(4, 4), "высота пересчитана после разрушения")

	_, err = m.Destroy(core)
	assert.ErrorIs(t, err, ErrIndestructible)
	assert.True(t, ix.Occupied(core))

	_, err = m.Destroy(vec.Vec3{X: 1, Y: 0, Z: 1})
	assert.ErrorIs(t, err, ErrGroundLevel)

	_, err = m.Destroy(rock)
	assert.ErrorIs(t, err, ErrNoVoxel)
}

func TestMutator_InsertBuilding(t *testing.T) {
	ix := flatIndex(0)
	m := NewMutator(ix)

	n, err := m.InsertBuilding(vec.Vec3{X: 2, Y: 1, Z: 2}, 2, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, 15.0, ix.HeightAt(3, 3))

	_, err = m.InsertBuilding(vec.Vec3{X: 3, Y: 1, Z: 3}, 2, 2, 1)
	assert.ErrorIs(t, err, ErrObstructed, "пересечение с существующей постройкой")

	_, err = m.InsertBuilding(vec.Vec3{X: 6, Y: 2, Z: 6}, 1, 1, 1)
	assert.ErrorIs(t, err, ErrObstructed, "нет опоры под первым уровнем")

	_, err = m.InsertBuilding(vec.Vec3{X: 9, Y: 1, Z: 5}, 2, 1, 1)
	assert.ErrorIs(t, err, ErrChunkNotLoaded)
	assert.False(t, ix.Occupied(vec.Vec3{X: 9, Y: 1, Z: 5}), "частичная вставка не выполняется")
}

func TestHeightInvariantAfterMutations(t *testing.T) {
	ix := flatIndex(0)
	m := NewMutator(ix)
	require.NoError(t, ix.Insert(vec.Vec3{X: 1, Y: 1, Z: 1}, NewVoxel(block.Snow, 0)))
	require.NoError(t, ix.Insert(vec.Vec3{X: 4, Y: 1, Z: 4}, NewVoxel(block.Rock, 0)))
	m.AttemptPush(vec.Vec3{X: 1, Y: 1, Z: 1}, mgl64.Vec3{0, 0, 1})
	_, _ = m.Destroy(vec.Vec3{X: 4, Y: 1, Z: 4})
	_, _ = m.InsertBuilding(vec.Vec3{X: 7, Y: 1, Z: 7}, 2, 2, 2)

	for gx := 0; gx < 10; gx++ {
		for gz := 0; gz < 10; gz++ {
			assert.Equal(t, columnTop(ix, gx, gz), ix.HeightAt(gx, gz), "колонка (%d,%d)", gx, gz)
		}
	}
}
