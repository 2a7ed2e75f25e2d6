package combat

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

// OutcomeKind итог шага снаряда
type OutcomeKind uint8

const (
	InFlight  OutcomeKind = iota // Снаряд продолжает полёт
	Ricochet                     // Отскок: снаряд уничтожен, мир не изменён
	Destroyed                    // Снаряд разрушил воксель
	HitEntity                    // Попадание в сущность противника
	Expired                      // Превышена дальность
)

// String возвращает имя итога
func (k OutcomeKind) String() string {
	switch k {
	case InFlight:
		return "in_flight"
	case Ricochet:
		return "ricochet"
	case Destroyed:
		return "destroyed"
	case HitEntity:
		return "hit_entity"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Outcome результат одного шага снаряда. Ровно один итог за тик.
type Outcome struct {
	Kind     OutcomeKind
	Coord    vec.Vec3       // Клетка попадания для Ricochet и Destroyed
	Material block.Material // Материал вокселя для Ricochet и Destroyed
	Position mgl64.Vec3     // Позиция снаряда после интегрирования
	TargetID uint64         // Поражённая цель для HitEntity
	NearMiss []uint64       // Враждебные юниты, мимо которых пролетел снаряд игрока
}

// Terminal сообщает, уничтожен ли снаряд этим итогом
func (o Outcome) Terminal() bool {
	return o.Kind != InFlight
}

// Simulator продвигает снаряды и разрешает попадания по миру и сущностям
type Simulator struct {
	index   *world.Index
	mutator *world.Mutator
	cfg     config.CombatConfig
}

// NewSimulator создаёт симулятор снарядов
func NewSimulator(index *world.Index, mutator *world.Mutator, cfg config.CombatConfig) *Simulator {
	return &Simulator{index: index, mutator: mutator, cfg: cfg}
}

// Step продвигает снаряд на dt и возвращает итог.
// Порядок проверок: воксель, сущность, промах рядом, дальность.
func (s *Simulator) Step(p *Projectile, dt float64, targets []Target) Outcome {
	delta := p.Velocity.Mul(dt)
	p.Position = p.Position.Add(delta)
	p.Travelled += delta.Len()

	out := Outcome{Kind: InFlight, Position: p.Position}

	c := s.index.Grid().ToGrid(p.Position)
	if v, ok := s.index.Get(c); ok {
		out.Coord = c
		out.Material = v.Material
		if v.Material.Ricochet() || c.Y <= world.GroundLevel {
			out.Kind = Ricochet
			return out
		}
		if _, err := s.mutator.Destroy(c); err != nil {
			out.Kind = Ricochet
			return out
		}
		out.Kind = Destroyed
		return out
	}

	r2 := s.cfg.HitRadius * s.cfg.HitRadius
	for _, t := range targets {
		if !p.Faction.Opposes(t.Faction) {
			continue
		}
		if p.Position.Sub(t.Position).LenSqr() < r2 {
			out.Kind = HitEntity
			out.TargetID = t.ID
			return out
		}
	}

	if p.Faction == FactionPlayer {
		n2 := s.cfg.NearMissRadius * s.cfg.NearMissRadius
		for _, t := range targets {
			if t.Faction == FactionHostile && p.Position.Sub(t.Position).LenSqr() < n2 {
				out.NearMiss = append(out.NearMiss, t.ID)
			}
		}
	}

	if p.Travelled > s.cfg.MaxRange {
		out.Kind = Expired
	}
	return out
}
