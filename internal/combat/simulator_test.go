package combat

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

// flatWorld чанк (0,0) с почвой на уровне 0
func flatWorld(t *testing.T) (*world.Index, *Simulator) {
	t.Helper()
	g := world.Grid{VoxelSize: 5, ChunkSize: 10, HeightLevels: 4}
	ix := world.NewIndex(g)
	data := world.ChunkData{Coords: vec.Vec2{}}
	for gx := 0; gx < g.ChunkSize; gx++ {
		for gz := 0; gz < g.ChunkSize; gz++ {
			data.Voxels = append(data.Voxels, world.GeneratedVoxel{
				Coord: vec.Vec3{X: gx, Y: 0, Z: gz},
				Voxel: world.NewVoxel(block.Soil, 0),
			})
		}
	}
	require.True(t, ix.LoadChunk(data))
	ix.DrainDelta()
	return ix, NewSimulator(ix, world.NewMutator(ix), config.Default().Combat)
}

// shotAt снаряд игрока на высоте уровня 1, летящий по +X
func shotAt(x, z float64) *Projectile {
	return NewProjectile(1, 1000, FactionPlayer, mgl64.Vec3{x, 2.5, z}, mgl64.Vec3{1, 0, 0}, 30)
}

func TestStep_CoreRicochetLeavesIndexUntouched(t *testing.T) {
	ix, sim := flatWorld(t)
	core := vec.Vec3{X: 4, Y: 1, Z: 4}
	require.NoError(t, ix.Insert(core, world.NewVoxel(block.Core, 0)))
	ix.DrainDelta()
	before := ix.Len()

	p := shotAt(19, 20)
	out := sim.Step(p, 0.05, nil)

	assert.Equal(t, Ricochet, out.Kind)
	assert.Equal(t, core, out.Coord)
	assert.True(t, out.Terminal())
	assert.Equal(t, before, ix.Len(), "ядро не разрушается")
	assert.Empty(t, ix.DrainDelta(), "рикошет не меняет индекс")
	assert.True(t, ix.Occupied(core))
}

func TestStep_DestroysRockAndUpdatesHeight(t *testing.T) {
	ix, sim := flatWorld(t)
	rock := vec.Vec3{X: 4, Y: 1, Z: 4}
	require.NoError(t, ix.Insert(rock, world.NewVoxel(block.Rock, 0)))
	require.Equal(t, 5.0, ix.HeightAt(4, 4))

	out := sim.Step(shotAt(19, 20), 0.05, nil)
	assert.Equal(t, Destroyed, out.Kind)
	assert.Equal(t, block.Rock, out.Material)
	assert.False(t, ix.Occupied(rock))
	assert.Equal(t, 0.0, ix.HeightAt(4, 4), "высота колонки пересчитана")
}

func TestStep_GroundLevelRicochet(t *testing.T) {
	ix, sim := flatWorld(t)
	before := ix.Len()
	p := NewProjectile(1, 1000, FactionPlayer, mgl64.Vec3{20, 0.5, 20}, mgl64.Vec3{0, -1, 0}, 30)

	out := sim.Step(p, 0.05, nil)
	assert.Equal(t, Ricochet, out.Kind, "попадание в уровень земли")
	assert.Equal(t, 0, out.Coord.Y)
	assert.Equal(t, before, ix.Len())
}

func TestStep_HitsOpposingFactionOnly(t *testing.T) {
	_, sim := flatWorld(t)
	targets := []Target{
		{ID: 1000, Faction: FactionPlayer, Position: mgl64.Vec3{22, 0, 20}},
		{ID: 1001, Faction: FactionNeutral, Position: mgl64.Vec3{60, 0, 20}},
		{ID: 1002, Faction: FactionHostile, Position: mgl64.Vec3{22, 0, 21}},
	}
	out := sim.Step(shotAt(19, 20), 0.05, targets)
	require.Equal(t, HitEntity, out.Kind)
	assert.Equal(t, uint64(1002), out.TargetID, "свои не поражаются")

	hostileShot := NewProjectile(2, 1002, FactionHostile, mgl64.Vec3{19, 2.5, 20}, mgl64.Vec3{1, 0, 0}, 30)
	out = sim.Step(hostileShot, 0.05, targets)
	require.Equal(t, HitEntity, out.Kind)
	assert.Equal(t, uint64(1000), out.TargetID)
}

func TestStep_HitsCivilians(t *testing.T) {
	_, sim := flatWorld(t)
	targets := []Target{{ID: 1001, Faction: FactionNeutral, Position: mgl64.Vec3{22, 0, 20}}}

	out := sim.Step(shotAt(19, 20), 0.05, targets)
	require.Equal(t, HitEntity, out.Kind)
	assert.Equal(t, uint64(1001), out.TargetID, "снаряд игрока поражает мирную машину")

	hostileShot := NewProjectile(2, 1002, FactionHostile, mgl64.Vec3{19, 2.5, 20}, mgl64.Vec3{1, 0, 0}, 30)
	out = sim.Step(hostileShot, 0.05, targets)
	require.Equal(t, HitEntity, out.Kind)
	assert.Equal(t, uint64(1001), out.TargetID, "снаряд врага тоже")
}

func TestStep_NearMissReportsHostiles(t *testing.T) {
	_, sim := flatWorld(t)
	targets := []Target{{ID: 1002, Faction: FactionHostile, Position: mgl64.Vec3{20.5, 2.5, 27}}}

	out := sim.Step(shotAt(19, 20), 0.05, targets)
	assert.Equal(t, InFlight, out.Kind)
	assert.Equal(t, []uint64{1002}, out.NearMiss)
	assert.False(t, out.Terminal())

	hostileShot := NewProjectile(2, 1003, FactionHostile, mgl64.Vec3{19, 2.5, 20}, mgl64.Vec3{1, 0, 0}, 30)
	out = sim.Step(hostileShot, 0.05, targets)
	assert.Empty(t, out.NearMiss, "промах рядом считается только для снарядов игрока")
}

func TestStep_ExpiresPastMaxRange(t *testing.T) {
	_, sim := flatWorld(t)
	p := shotAt(19, 20)
	p.Travelled = 99
	out := sim.Step(p, 0.05, nil)
	assert.Equal(t, Expired, out.Kind)
	assert.InDelta(t, 100.5, p.Travelled, 1e-9)
}

func TestStep_FlightOutsideLoadedWorld(t *testing.T) {
	_, sim := flatWorld(t)
	p := NewProjectile(1, 1000, FactionPlayer, mgl64.Vec3{-100, 2.5, -100}, mgl64.Vec3{0, 0, 1}, 30)
	out := sim.Step(p, 0.1, nil)
	assert.Equal(t, InFlight, out.Kind)
	assert.InDelta(t, -97.0, out.Position.Z(), 1e-9)
}

func TestFactionOpposes(t *testing.T) {
	assert.True(t, FactionPlayer.Opposes(FactionHostile))
	assert.False(t, FactionPlayer.Opposes(FactionPlayer))
	assert.True(t, FactionHostile.Opposes(FactionNeutral))
	assert.True(t, FactionPlayer.Opposes(FactionNeutral))
	assert.False(t, FactionNeutral.Opposes(FactionPlayer), "нейтральная сторона не стреляет")
}
