package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

func tankParams() Params {
	cfg := config.Default().Motion
	return NewParams(cfg, cfg.TankSpeed, false, true)
}

func TestSelectGround(t *testing.T) {
	ground, ok := SelectGround(0, []float64{0, 0, 0, 5}, 2)
	require.True(t, ok)
	assert.Equal(t, 0.0, ground, "стенка выше допуска подъёма игнорируется")

	ground, ok = SelectGround(4, []float64{0, 5, world.HoleElevation}, 2)
	require.True(t, ok)
	assert.Equal(t, 5.0, ground, "ступень в пределах допуска выбирается")

	_, ok = SelectGround(0, []float64{world.HoleElevation, 10}, 2)
	assert.False(t, ok, "нет подходящих выборок")
}

func TestStep_ForwardOnFlat(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, world.NewMutator(ix))
	b := &Body{Position: mgl64.Vec3{20, 0, 10}}

	res := ig.Step(b, TankFootprint(2.5), tankParams(), Intent{Throttle: 1}, 0.1, 1, nil)
	assert.True(t, res.Moved)
	assert.False(t, res.Slid)
	assert.InDelta(t, 12.0, b.Position.Z(), 1e-9, "20 ед/с за 0.1 с")
	assert.InDelta(t, 0.0, b.Position.Y(), 1e-9)
}

func TestStep_IntentClamped(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	b := &Body{Position: mgl64.Vec3{20, 0, 10}}

	ig.Step(b, TankFootprint(2.5), tankParams(), Intent{Throttle: 5}, 0.1, 1, nil)
	assert.InDelta(t, 12.0, b.Position.Z(), 1e-9, "газ ограничен единицей")
}

func TestStep_MomentumLerp(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	cfg := config.Default().Motion
	params := NewParams(cfg, cfg.TankSpeed, true, true)
	b := &Body{Position: mgl64.Vec3{20, 0, 10}}

	ig.Step(b, TankFootprint(2.5), params, Intent{Throttle: 1}, 0.1, 1, nil)
	assert.InDelta(t, 10.0, b.Speed, 1e-9, "скорость догоняет цель с коэффициентом 5*dt")
}

func TestStep_SlideAlongWall(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	// Стена по z = 7 (мировая z = 35) во всю ширину чанка
	for gx := 0; gx < 10; gx++ {
		require.NoError(t, ix.Insert(vec.Vec3{X: gx, Y: 1, Z: 7}, world.NewVoxel(block.Rock, 0)))
	}

	b := &Body{Position: mgl64.Vec3{20, 0, 28}, Yaw: math.Pi / 4}
	start := b.Position
	res := ig.Step(b, TankFootprint(2.5), tankParams(), Intent{Throttle: 1}, 0.1, 1, nil)

	require.True(t, res.Moved)
	assert.True(t, res.Slid, "прямое смещение заблокировано, срабатывает скольжение")
	assert.Greater(t, b.Position.X(), start.X(), "скользит по X")
	assert.InDelta(t, start.Z(), b.Position.Z(), 1e-9, "по Z не продвигается")
}

func TestStep_FullyBlockedHolds(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	for gx := 0; gx < 10; gx++ {
		require.NoError(t, ix.Insert(vec.Vec3{X: gx, Y: 1, Z: 7}, world.NewVoxel(block.Rock, 0)))
	}

	b := &Body{Position: mgl64.Vec3{20, 0, 29}}
	res := ig.Step(b, TankFootprint(2.5), tankParams(), Intent{Throttle: 1}, 0.1, 1, nil)
	assert.True(t, res.Blocked)
	assert.Equal(t, mgl64.Vec3{20, 0, 29}, b.Position, "позиция сохраняется")
}

func TestStep_RotationRejectedIntoWall(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	b := &Body{Position: mgl64.Vec3{20, 0, 20}}
	fp := TankFootprint(2.5)

	// Передний угол при повороте на 0.2 рад уходит в клетку (5, 1, 5)
	require.NoError(t, ix.Insert(vec.Vec3{X: 5, Y: 1, Z: 5}, world.NewVoxel(block.Rock, 0)))
	require.False(t, NewProbe(ix).IsBlocked(b.Pose(), fp), "исходная поза свободна")

	res := ig.Step(b, fp, tankParams(), Intent{Turn: 1}, 0.1, 1, nil)
	assert.False(t, res.Rotated)
	assert.Equal(t, 0.0, b.Yaw)
}

func TestStep_PushesSnowAhead(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, world.NewMutator(ix))
	snow := vec.Vec3{X: 4, Y: 1, Z: 5}
	require.NoError(t, ix.Insert(snow, world.NewVoxel(block.Snow, 0)))

	// Передние углы входят в клетку (4,1,5) после смещения
	b := &Body{Position: mgl64.Vec3{20, 0, 18}}
	res := ig.Step(b, TankFootprint(2.5), tankParams(), Intent{Throttle: 1}, 0.1, 1, nil)

	require.Len(t, res.Pushes, 1)
	assert.Equal(t, snow, res.Pushes[0].From)
	assert.Equal(t, vec.Vec3{X: 4, Y: 1, Z: 6}, res.Pushes[0].To)
	assert.True(t, res.Moved)
}

func TestStep_EntitySeparation(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	b := &Body{Position: mgl64.Vec3{20, 0, 20}}
	others := []Obstacle{{ID: 2, Position: mgl64.Vec3{20, 0, 26.5}, Radius: 2.5}}

	res := ig.Step(b, TankFootprint(2.5), tankParams(), Intent{Throttle: 1}, 0.1, 1, others)
	assert.True(t, res.Blocked, "другая сущность впереди")
	assert.Equal(t, 20.0, b.Position.Z())
}

func TestStep_FreeFallIntoHoleAndLanding(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	params := tankParams()

	b := &Body{Position: mgl64.Vec3{-30, 0, 20}}
	ig.Step(b, TankFootprint(2.5), params, Intent{}, 0.1, 1, nil)
	assert.True(t, b.Falling, "вне известного мира начинается падение")
	assert.Less(t, b.Position.Y(), 0.0)

	// Падение с высоты на ровную землю
	b = &Body{Position: mgl64.Vec3{20, 10, 20}}
	var landed StepResult
	for i := 0; i < 100 && !landed.Landed; i++ {
		landed = ig.Step(b, TankFootprint(2.5), params, Intent{}, 0.05, 1, nil)
	}
	require.True(t, landed.Landed)
	assert.Greater(t, landed.Severity, 0.0)
	assert.Equal(t, 0.0, b.Position.Y(), "после приземления высота прижата к земле")
	assert.False(t, b.Falling)
	assert.Equal(t, 0.0, b.VerticalVelocity)
}

func TestStep_SmallOffsetSnaps(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	params := tankParams()

	b := &Body{Position: mgl64.Vec3{20, 0.8, 20}}
	ig.Step(b, TankFootprint(2.5), params, Intent{}, 0.1, 1, nil)
	assert.False(t, b.Falling, "отклонение ниже порога падения")
	assert.InDelta(t, 0.8-0.8*params.FastSnapFactor, b.Position.Y(), 1e-9, "быстрая подтяжка при большом отклонении")

	b = &Body{Position: mgl64.Vec3{20, 0.2, 20}}
	ig.Step(b, TankFootprint(2.5), params, Intent{}, 0.1, 1, nil)
	assert.InDelta(t, 0.2-0.2*params.SlowSnapFactor, b.Position.Y(), 1e-9, "медленная подтяжка вблизи земли")
}

func TestStep_RecoilDisplacesAndDecays(t *testing.T) {
	ix := flatIndex(0)
	ig := NewIntegrator(ix, nil)
	b := &Body{Position: mgl64.Vec3{20, 0, 20}, Recoil: mgl64.Vec3{0, 0, -6}}

	ig.Step(b, TankFootprint(2.5), tankParams(), Intent{}, 0.1, 1, nil)
	assert.InDelta(t, 19.4, b.Position.Z(), 1e-9)
	assert.InDelta(t, -6*0.6, b.Recoil.Z(), 1e-9)
}
