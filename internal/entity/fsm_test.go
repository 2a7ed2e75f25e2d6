package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/physics"
)

// fakeProbe блокирует курсы, для которых blocked возвращает true
type fakeProbe struct {
	blocked func(yaw float64) bool
}

func (f fakeProbe) HeadingBlocked(_ mgl64.Vec3, yaw, _ float64, _ physics.Footprint) bool {
	if f.blocked == nil {
		return false
	}
	return f.blocked(physics.WrapAngle(yaw))
}

func newHostile(blindSpot bool) *Entity {
	e := New(1000, KindHostile, mgl64.Vec3{}, 0, physics.TankFootprint(2.5))
	e.Hostile.BlindSpot = blindSpot
	e.Hostile.SpawnedAt = -10
	return e
}

func targetAt(angle, dist float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(angle) * dist, 0, math.Cos(angle) * dist}
}

func newContext(now float64, target mgl64.Vec3) *Context {
	return &Context{
		Now:       now,
		Dt:        1.0 / 60,
		Target:    target,
		HasTarget: true,
		Params:    NewAIParams(config.Default()),
		Probe:     fakeProbe{},
	}
}

func TestBlindSpotUnitStaysIdleUntilAlerted(t *testing.T) {
	e := newHostile(true)

	ctx := newContext(1, targetAt(1.2, 30))
	d := e.Think(ctx)
	assert.False(t, ctx.Perception.CanSee, "1.2 рад вне суженного полуугла 1.0")
	assert.Equal(t, idleName, e.Hostile.State.Name())
	assert.Equal(t, Decision{}, d, "в покое юнит не движется и не стреляет")

	e.Hostile.Alert(1, 8)
	ctx = newContext(2, targetAt(1.2, 30))
	d = e.Think(ctx)
	assert.Equal(t, alertedName, e.Hostile.State.Name(), "тревога снимает слепую зону")
	assert.Greater(t, d.Turn, 0.0, "поворачивает к цели")

	// Тревога истекла, но цель за порогом дальнего обзора
	ctx = newContext(13, targetAt(1.2, 70))
	e.Think(ctx)
	assert.True(t, ctx.Perception.CanSee)
	assert.Equal(t, pursueName, e.Hostile.State.Name())
}

func TestUnflaggedUnitSeesWiderCone(t *testing.T) {
	e := newHostile(false)
	ctx := newContext(1, targetAt(1.2, 30))
	e.Think(ctx)
	assert.True(t, ctx.Perception.CanSee, "обычный полуугол Pi/2")
	assert.Equal(t, pursueName, e.Hostile.State.Name())
}

func TestDutyCycleOffPhaseIsIdle(t *testing.T) {
	e := newHostile(false)
	ctx := newContext(9, targetAt(0, 30)) // 9 mod 12 вне активного окна 8 с
	e.Think(ctx)
	assert.False(t, ctx.Perception.DutyActive)
	assert.Equal(t, idleName, e.Hostile.State.Name())

	e.Hostile.Alert(9, 8)
	e.Think(newContext(9.5, targetAt(0, 30)))
	assert.Equal(t, alertedName, e.Hostile.State.Name(), "тревога игнорирует цикл активности")
}

func TestEngageFiresWithCooldownAndGrace(t *testing.T) {
	e := newHostile(false)
	ctx := newContext(3, targetAt(0, 30))
	d := e.Think(ctx)
	require.Equal(t, engageName, e.Hostile.State.Name())
	assert.True(t, d.Fire, "цель прямо по курсу, перезарядка не идёт")
	assert.Equal(t, 1.0, d.Throttle, "дальше минимальной дистанции юнит сближается")
	assert.True(t, e.Combat.Locked)

	e.Combat.RecordShot(3)
	d = e.Think(newContext(5, targetAt(0, 30)))
	assert.False(t, d.Fire, "перезарядка 5 с не истекла")

	d = e.Think(newContext(12.5, targetAt(0, 30)))
	assert.True(t, d.Fire)

	// Недавнее приземление блокирует огонь
	e.Combat.HasFired = false
	e.Hostile.LandedAt = 12
	d = e.Think(newContext(13, targetAt(0, 30)))
	assert.False(t, d.Fire, "пауза после приземления")
}

func TestEngageWithinMinRangeHolds(t *testing.T) {
	e := newHostile(false)
	d := e.Think(newContext(3, targetAt(0, 4)))
	assert.Equal(t, 0.0, d.Throttle, "внутри минимальной дистанции юнит не едет")
	assert.True(t, d.Fire)
}

func TestPursueDeflectsAroundObstacle(t *testing.T) {
	e := newHostile(false)
	e.Yaw = 0.5 // цель по курсу 0, ошибка 0.5 => преследование
	ctx := newContext(1, targetAt(0, 30))
	// Прямой курс и +30 заблокированы, -30 свободен
	ctx.Probe = fakeProbe{blocked: func(yaw float64) bool {
		return math.Abs(yaw) < 1e-6 || math.Abs(yaw-math.Pi/6) < 1e-6
	}}

	d := e.Think(ctx)
	require.Equal(t, pursueName, e.Hostile.State.Name())
	assert.Less(t, d.Turn, 0.0, "поворачивает к отклонённому курсу -30°")
	assert.Equal(t, 0.0, d.Throttle, "ошибка курса велика, не едет")
}

func TestPursueFallsBackToRightAngle(t *testing.T) {
	e := newHostile(false)
	e.Yaw = 0.5
	ctx := newContext(1, targetAt(0, 30))
	// Свободны только курсы ±90°
	ctx.Probe = fakeProbe{blocked: func(yaw float64) bool {
		return math.Abs(yaw) < 1.5
	}}

	d := e.Think(ctx)
	require.Equal(t, pursueName, e.Hostile.State.Name())
	assert.Equal(t, 1.0, d.Turn, "первым свободным оказывается +90°")
	assert.Equal(t, 0.0, d.Throttle)
}

func TestPursueAllHeadingsBlockedSteersAtTarget(t *testing.T) {
	e := newHostile(false)
	e.Yaw = 0.15
	ctx := newContext(1, targetAt(0, 30))
	ctx.Probe = fakeProbe{blocked: func(float64) bool { return true }}

	d := e.Think(ctx)
	require.Equal(t, pursueName, e.Hostile.State.Name())
	assert.Equal(t, -1.0, d.Turn, "без свободного курса поворачивает прямо на цель")
	assert.Equal(t, 1.0, d.Throttle, "ошибка курса в пределах допуска движения")
}

func TestNoTargetIsIdle(t *testing.T) {
	e := newHostile(false)
	ctx := newContext(1, mgl64.Vec3{})
	ctx.HasTarget = false
	assert.Equal(t, Decision{}, e.Think(ctx))
	assert.Equal(t, idleName, e.Hostile.State.Name())
}

func TestThinkIgnoresNonHostile(t *testing.T) {
	e := New(1, KindCivilian, mgl64.Vec3{}, 0, physics.TankFootprint(2.5))
	assert.Equal(t, Decision{}, e.Think(newContext(1, mgl64.Vec3{})))
}
