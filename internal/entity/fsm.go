package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/physics"
)

// deflectLookahead дальность проверки курса на препятствие
const deflectLookahead = 4.0

// deflectOffsets порядок альтернативных курсов при заблокированном прямом пути
var deflectOffsets = []float64{
	math.Pi / 6, -math.Pi / 6,
	math.Pi / 3, -math.Pi / 3,
	math.Pi / 2, -math.Pi / 2,
}

// State представляет состояние конечного автомата враждебного юнита.
// Update либо возвращает другое состояние (переход), либо пишет решение тика и возвращает себя.
type State interface {
	Name() string
	Enter(e *Entity, ctx *Context)
	Update(e *Entity, ctx *Context) State
	Exit(e *Entity, ctx *Context)
}

// HeadingProbe проверка курса на препятствие (реализуется physics.Probe)
type HeadingProbe interface {
	HeadingBlocked(pos mgl64.Vec3, yaw, lookahead float64, fp physics.Footprint) bool
}

// AIParams параметры поведения
type AIParams struct {
	config.AIConfig
	FireCooldown  float64
	RotationSpeed float64
}

// NewAIParams собирает параметры из конфигурации
func NewAIParams(cfg *config.Config) AIParams {
	return AIParams{
		AIConfig:      cfg.AI,
		FireCooldown:  cfg.Combat.HostileFireCooldown,
		RotationSpeed: cfg.Motion.RotationSpeed,
	}
}

// Decision решение тика: намерение движения и выстрел
type Decision struct {
	physics.Intent
	Fire bool
}

// Perception производные входы автомата, вычисляемые один раз за тик
type Perception struct {
	Distance    float64
	TargetYaw   float64
	FacingError float64 // Знаковая ошибка курса на цель
	Alerted     bool
	DutyActive  bool
	CanSee      bool
}

// Context входы и выход одного шага автомата
type Context struct {
	Now       float64
	Dt        float64
	Target    mgl64.Vec3
	HasTarget bool
	Params    AIParams
	Probe     HeadingProbe

	Perception Perception
	Decision   Decision
}

// maxTransitions ограничивает цепочку переходов за тик
const maxTransitions = 4

// Think выполняет шаг автомата враждебного юнита и возвращает решение тика
func (e *Entity) Think(ctx *Context) Decision {
	h := e.Hostile
	if h == nil {
		return Decision{}
	}
	ctx.Decision = Decision{}
	ctx.Perception = e.perceive(ctx)

	if h.State == nil {
		h.State = &IdleState{}
		h.State.Enter(e, ctx)
	}

	for i := 0; i < maxTransitions; i++ {
		next := h.State.Update(e, ctx)
		if next == h.State {
			break
		}
		h.State.Exit(e, ctx)
		h.State = next
		h.State.Enter(e, ctx)
	}
	return ctx.Decision
}

// perceive вычисляет расстояние, ошибку курса, цикл активности и видимость
func (e *Entity) perceive(ctx *Context) Perception {
	h := e.Hostile
	p := ctx.Params
	var out Perception
	if !ctx.HasTarget {
		return out
	}
	out.Distance = e.HorizontalDistance(ctx.Target)
	out.TargetYaw = physics.YawTo(e.Position, ctx.Target)
	out.FacingError = physics.WrapAngle(out.TargetYaw - e.Yaw)
	out.Alerted = h.Alerted(ctx.Now)
	out.DutyActive = DutyActive(ctx.Now, h.PhaseOffset, p.DutyPeriod, p.DutyActive)
	out.CanSee = CanSee(out.Alerted, out.Distance, out.FacingError, h.BlindSpot, p.AIConfig)
	return out
}

// desiredState выбирает состояние по восприятию
func desiredState(ctx *Context) string {
	pc := ctx.Perception
	switch {
	case !ctx.HasTarget:
		return idleName
	case pc.Alerted:
		return alertedName
	case !pc.DutyActive || !pc.CanSee:
		return idleName
	case math.Abs(pc.FacingError) < ctx.Params.FireFacing:
		return engageName
	default:
		return pursueName
	}
}

func stateFor(name string) State {
	switch name {
	case pursueName:
		return &PursueState{}
	case engageName:
		return &EngageState{}
	case alertedName:
		return &AlertedState{}
	default:
		return &IdleState{}
	}
}

const (
	idleName    = "idle"
	pursueName  = "pursue"
	engageName  = "engage"
	alertedName = "alerted"
)

// steer поворачивает к цели или к первому свободному отклонённому курсу и решает, ехать ли
func (e *Entity) steer(ctx *Context) {
	pc := ctx.Perception
	heading := pc.TargetYaw
	if ctx.Probe != nil && ctx.Probe.HeadingBlocked(e.Position, heading, deflectLookahead, e.Footprint) {
		for _, off := range deflectOffsets {
			if !ctx.Probe.HeadingBlocked(e.Position, heading+off, deflectLookahead, e.Footprint) {
				heading += off
				break
			}
		}
	}

	err := physics.WrapAngle(heading - e.Yaw)
	maxStep := ctx.Params.RotationSpeed * ctx.Dt
	if maxStep > 0 {
		ctx.Decision.Turn = math.Max(-1, math.Min(1, err/maxStep))
	}
	if math.Abs(err) < ctx.Params.MoveFacing && pc.Distance > ctx.Params.MinRange {
		ctx.Decision.Throttle = 1
	}
}

// tryFire ставит выстрел, если цель в секторе огня, перезарядка истекла и прошла пауза после появления
func (e *Entity) tryFire(ctx *Context) {
	if e.Combat == nil || math.Abs(ctx.Perception.FacingError) >= ctx.Params.FireFacing {
		return
	}
	if !e.Combat.CanFire(ctx.Now, ctx.Params.FireCooldown) {
		return
	}
	if ctx.Now < e.Hostile.ReadyAt(ctx.Params.FireGrace) {
		return
	}
	ctx.Decision.Fire = true
}

// === Конкретные состояния ===

// IdleState - стоит на месте и не стреляет
type IdleState struct{}

func (s *IdleState) Name() string { return idleName }

func (s *IdleState) Enter(e *Entity, ctx *Context) {
	e.Speed = 0
}

func (s *IdleState) Update(e *Entity, ctx *Context) State {
	if name := desiredState(ctx); name != idleName {
		return stateFor(name)
	}
	return s
}

func (s *IdleState) Exit(e *Entity, ctx *Context) {}

// PursueState - поворачивает к цели и сближается
type PursueState struct{}

func (s *PursueState) Name() string { return pursueName }

func (s *PursueState) Enter(e *Entity, ctx *Context) {}

func (s *PursueState) Update(e *Entity, ctx *Context) State {
	if name := desiredState(ctx); name != pursueName {
		return stateFor(name)
	}
	e.steer(ctx)
	return s
}

func (s *PursueState) Exit(e *Entity, ctx *Context) {}

// EngageState - цель в секторе огня: стреляет с учётом перезарядки, продолжает сближение
type EngageState struct{}

func (s *EngageState) Name() string { return engageName }

func (s *EngageState) Enter(e *Entity, ctx *Context) {
	if e.Combat != nil {
		e.Combat.Locked = true
	}
}

func (s *EngageState) Update(e *Entity, ctx *Context) State {
	if name := desiredState(ctx); name != engageName {
		return stateFor(name)
	}
	e.steer(ctx)
	e.tryFire(ctx)
	return s
}

func (s *EngageState) Exit(e *Entity, ctx *Context) {
	if e.Combat != nil {
		e.Combat.Locked = false
	}
}

// AlertedState - тревога: преследует и атакует независимо от цикла активности и слепой зоны
type AlertedState struct{}

func (s *AlertedState) Name() string { return alertedName }

func (s *AlertedState) Enter(e *Entity, ctx *Context) {}

func (s *AlertedState) Update(e *Entity, ctx *Context) State {
	if name := desiredState(ctx); name != alertedName {
		return stateFor(name)
	}
	e.steer(ctx)
	e.tryFire(ctx)
	if e.Combat != nil {
		e.Combat.Locked = math.Abs(ctx.Perception.FacingError) < ctx.Params.FireFacing
	}
	return s
}

func (s *AlertedState) Exit(e *Entity, ctx *Context) {
	if e.Combat != nil {
		e.Combat.Locked = false
	}
}
