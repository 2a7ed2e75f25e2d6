package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/physics"
)

// Kind вариант сущности
type Kind uint8

const (
	KindPlayer   Kind = iota // Танк игрока
	KindHostile              // Враждебный танк
	KindCivilian             // Мирная машина
)

// Capability возможность варианта сущности (битовая маска)
type Capability uint8

const (
	CapDrivable   Capability = 1 << iota // Управляется намерением игрока
	CapHostileAI                         // Управляется автоматом враждебного поведения
	CapCivilianAI                        // Бесцельно перемещается
	CapArmed                             // Может стрелять
	CapMortal                            // Имеет здоровье; смерть означает конец игры
)

// capabilities таблица возможностей по вариантам
var capabilities = map[Kind]Capability{
	KindPlayer:   CapDrivable | CapArmed | CapMortal,
	KindHostile:  CapHostileAI | CapArmed,
	KindCivilian: CapCivilianAI,
}

// Has сообщает, обладает ли вариант возможностью
func (k Kind) Has(c Capability) bool {
	return capabilities[k]&c != 0
}

// String возвращает имя варианта
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindHostile:
		return "hostile"
	case KindCivilian:
		return "civilian"
	default:
		return "unknown"
	}
}

// CombatState состояние оружия вооружённой сущности
type CombatState struct {
	LastFire float64 // Время последнего выстрела
	HasFired bool
	Locked   bool   // Есть захват цели
	TargetID uint64 // Захваченная цель
}

// CanFire сообщает, истекла ли перезарядка
func (c *CombatState) CanFire(now, cooldown float64) bool {
	return !c.HasFired || now-c.LastFire >= cooldown
}

// RecordShot отмечает выстрел
func (c *CombatState) RecordShot(now float64) {
	c.LastFire = now
	c.HasFired = true
}

// HostileState состояние враждебного юнита
type HostileState struct {
	PhaseOffset float64 // Сдвиг цикла активности
	BlindSpot   bool    // Суженный угол обзора
	AlertUntil  float64 // Тревога действует до этого момента
	SpawnedAt   float64
	LandedAt    float64
	State       State // Текущее состояние автомата
}

// Alerted сообщает, действует ли тревога
func (h *HostileState) Alerted(now float64) bool {
	return now < h.AlertUntil
}

// Alert продлевает тревогу до now+duration
func (h *HostileState) Alert(now, duration float64) {
	if until := now + duration; until > h.AlertUntil {
		h.AlertUntil = until
	}
}

// ReadyAt момент, с которого юнит может стрелять после появления или приземления
func (h *HostileState) ReadyAt(grace float64) float64 {
	return math.Max(h.SpawnedAt, h.LandedAt) + grace
}

// CivilianState состояние мирной машины
type CivilianState struct {
	Heading  float64 // Желаемый курс
	NextTurn float64 // Момент следующей смены курса
	Turns    uint32  // Число смен курса
}

// Entity сущность симуляции: общие поля плюс состояние по возможностям варианта
type Entity struct {
	ID   uint64
	Kind Kind
	physics.Body
	Footprint physics.Footprint

	Health   int // Только для CapMortal
	Combat   *CombatState
	Hostile  *HostileState
	Civilian *CivilianState
}

// New создаёт сущность варианта kind с состоянием по таблице возможностей
func New(id uint64, kind Kind, pos mgl64.Vec3, yaw float64, fp physics.Footprint) *Entity {
	e := &Entity{
		ID:        id,
		Kind:      kind,
		Body:      physics.Body{Position: pos, Yaw: yaw},
		Footprint: fp,
	}
	if kind.Has(CapArmed) {
		e.Combat = &CombatState{}
	}
	if kind.Has(CapHostileAI) {
		e.Hostile = &HostileState{}
	}
	if kind.Has(CapCivilianAI) {
		e.Civilian = &CivilianState{Heading: yaw}
	}
	return e
}

// Alive сообщает, жива ли смертная сущность; несмертные живы до удаления
func (e *Entity) Alive() bool {
	if !e.Kind.Has(CapMortal) {
		return true
	}
	return e.Health > 0
}

// Damage уменьшает здоровье смертной сущности и сообщает, погибла ли она
func (e *Entity) Damage(amount int) bool {
	if !e.Kind.Has(CapMortal) {
		return true
	}
	e.Health -= amount
	if e.Health < 0 {
		e.Health = 0
	}
	return e.Health == 0
}

// Obstacle возвращает сущность как препятствие для разделения
func (e *Entity) Obstacle() physics.Obstacle {
	return physics.Obstacle{ID: e.ID, Position: e.Position, Radius: e.Footprint.Radius}
}

// HorizontalDistance расстояние до точки в плоскости XZ
func (e *Entity) HorizontalDistance(p mgl64.Vec3) float64 {
	dx := p.X() - e.Position.X()
	dz := p.Z() - e.Position.Z()
	return math.Sqrt(dx*dx + dz*dz)
}
