package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
)

// minDisplacement смещения короче этого не проверяются
const minDisplacement = 1e-9

// Body физическое состояние сущности
type Body struct {
	Position         mgl64.Vec3
	Yaw              float64
	Speed            float64
	VerticalVelocity float64
	Falling          bool
	Recoil           mgl64.Vec3 // Горизонтальный импульс отдачи, затухает со временем
}

// Pose возвращает позу тела
func (b *Body) Pose() Pose {
	return Pose{Position: b.Position, Yaw: b.Yaw}
}

// Intent намерение движения: поворот и газ в диапазоне [-1, 1]
type Intent struct {
	Turn     float64
	Throttle float64
}

// Clamped возвращает намерение с компонентами, ограниченными [-1, 1]
func (i Intent) Clamped() Intent {
	return Intent{Turn: clampUnit(i.Turn), Throttle: clampUnit(i.Throttle)}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// Params параметры движения сущности
type Params struct {
	MaxSpeed         float64
	RotationSpeed    float64
	Momentum         float64 // 0: скорость задаётся сразу, иначе плавно
	StepClimb        float64
	FallThreshold    float64
	Gravity          float64
	LandEpsilon      float64
	FastSnapDistance float64
	FastSnapFactor   float64
	SlowSnapFactor   float64
	RecoilDamping    float64
	CanPush          bool
}

// NewParams собирает параметры из конфигурации движения
func NewParams(cfg config.MotionConfig, maxSpeed float64, momentum, canPush bool) Params {
	p := Params{
		MaxSpeed:         maxSpeed,
		RotationSpeed:    cfg.RotationSpeed,
		StepClimb:        cfg.StepClimb,
		FallThreshold:    cfg.FallThreshold,
		Gravity:          cfg.Gravity,
		LandEpsilon:      cfg.LandEpsilon,
		FastSnapDistance: cfg.FastSnapDistance,
		FastSnapFactor:   cfg.FastSnapFactor,
		SlowSnapFactor:   cfg.SlowSnapFactor,
		RecoilDamping:    cfg.RecoilDamping,
		CanPush:          canPush,
	}
	if momentum {
		p.Momentum = cfg.Momentum
	}
	return p
}

// Pusher сдвигает толкаемые воксели (реализуется world.Mutator)
type Pusher interface {
	AttemptPush(c vec.Vec3, dir mgl64.Vec3) (vec.Vec3, bool)
}

// Push совершённый сдвиг вокселя
type Push struct {
	From vec.Vec3
	To   vec.Vec3
}

// StepResult итог шага интегратора
type StepResult struct {
	Rotated  bool
	Moved    bool
	Slid     bool // Сработало скольжение по одной оси
	Blocked  bool // Смещение полностью отклонено
	Pushes   []Push
	Landed   bool
	Severity float64 // Модуль вертикальной скорости при приземлении
}

// Integrator продвигает тела: намерение, смещение, проверка столкновений, скольжение, рельеф
type Integrator struct {
	probe  *Probe
	index  VoxelQuery
	pusher Pusher
}

// NewIntegrator создаёт интегратор. pusher может быть nil.
func NewIntegrator(index VoxelQuery, pusher Pusher) *Integrator {
	return &Integrator{probe: NewProbe(index), index: index, pusher: pusher}
}

// Probe возвращает пробу столкновений интегратора
func (ig *Integrator) Probe() *Probe {
	return ig.probe
}

// Step выполняет один шаг движения тела за dt секунд
func (ig *Integrator) Step(b *Body, fp Footprint, params Params, intent Intent, dt float64, selfID uint64, others []Obstacle) StepResult {
	var res StepResult
	intent = intent.Clamped()

	// Поворот отклоняется, если след сразу оказывается в занятой позе
	if intent.Turn != 0 {
		yaw := b.Yaw + intent.Turn*params.RotationSpeed*dt
		if !ig.probe.IsBlocked(Pose{Position: b.Position, Yaw: yaw}, fp) {
			b.Yaw = yaw
			res.Rotated = true
		}
	}

	target := intent.Throttle * params.MaxSpeed
	if params.Momentum > 0 {
		b.Speed += (target - b.Speed) * math.Min(1, params.Momentum*dt)
	} else {
		b.Speed = target
	}

	disp := Forward(b.Yaw).Mul(b.Speed * dt).Add(b.Recoil.Mul(dt))
	if params.RecoilDamping > 0 {
		b.Recoil = b.Recoil.Mul(math.Max(0, 1-params.RecoilDamping*dt))
	}

	if disp.Len() > minDisplacement {
		ig.translate(b, fp, params, disp, selfID, others, &res)
	}

	ig.followTerrain(b, fp, params, dt, &res)
	return res
}

// translate пытается сдвинуть тело: вперёд, затем только по X, затем только по Z
func (ig *Integrator) translate(b *Body, fp Footprint, params Params, disp mgl64.Vec3, selfID uint64, others []Obstacle, res *StepResult) {
	next := Pose{Position: b.Position.Add(disp), Yaw: b.Yaw}

	if params.CanPush && ig.pusher != nil {
		for _, c := range ig.probe.Cells(next, fp) {
			v, ok := ig.index.Get(c)
			if !ok || !v.Pushable {
				continue
			}
			if to, pushed := ig.pusher.AttemptPush(c, disp); pushed {
				res.Pushes = append(res.Pushes, Push{From: c, To: to})
			}
		}
	}

	if ig.probe.CanMoveTo(next, fp, selfID, others) {
		b.Position = next.Position
		res.Moved = true
		return
	}

	for _, axis := range []mgl64.Vec3{{disp.X(), 0, 0}, {0, 0, disp.Z()}} {
		if axis.Len() <= minDisplacement {
			continue
		}
		slide := Pose{Position: b.Position.Add(axis), Yaw: b.Yaw}
		if ig.probe.CanMoveTo(slide, fp, selfID, others) {
			b.Position = slide.Position
			res.Moved = true
			res.Slid = true
			return
		}
	}

	res.Blocked = true
	b.Speed = 0
}

// SelectGround выбирает самую высокую выборку, не превышающую current+stepClimb.
// Значения-дыры игнорируются; без подходящих выборок ok == false.
func SelectGround(current float64, samples []float64, stepClimb float64) (float64, bool) {
	best, ok := 0.0, false
	for _, s := range samples {
		if s <= world.HoleElevation {
			continue
		}
		if s > current+stepClimb {
			continue
		}
		if !ok || s > best {
			best, ok = s, true
		}
	}
	return best, ok
}

// followTerrain вертикальное следование рельефу: подтяжка, свободное падение, приземление
func (ig *Integrator) followTerrain(b *Body, fp Footprint, params Params, dt float64, res *StepResult) {
	samples := ig.probe.HeightSamples(b.Pose(), fp)
	center := samples[len(samples)-1]
	y := b.Position.Y()

	hole := center <= world.HoleElevation
	ground, found := SelectGround(y, samples, params.StepClimb)
	if !found {
		ground = y
	}

	if hole || b.Falling || y-ground > params.FallThreshold {
		b.Falling = true
		b.VerticalVelocity -= params.Gravity * dt
		y += b.VerticalVelocity * dt
		if !hole && found && y <= ground+params.LandEpsilon {
			res.Landed = true
			res.Severity = math.Abs(b.VerticalVelocity)
			y = ground
			b.VerticalVelocity = 0
			b.Falling = false
		}
		b.Position[1] = y
		return
	}

	diff := ground - y
	factor := params.SlowSnapFactor
	if math.Abs(diff) > params.FastSnapDistance {
		factor = params.FastSnapFactor
	}
	b.Position[1] = y + diff*factor
}
