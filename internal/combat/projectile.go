package combat

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Faction сторона конфликта; снаряд поражает только противоположную сторону
type Faction uint8

const (
	FactionNeutral Faction = iota // Мирные машины: не стреляют и не поражаются
	FactionPlayer
	FactionHostile
)

// String возвращает имя стороны
func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionHostile:
		return "hostile"
	default:
		return "neutral"
	}
}

// Opposes сообщает, поражает ли снаряд стороны f цель стороны other.
// Нейтральная сторона не стреляет, но поражается снарядами обеих воюющих сторон.
func (f Faction) Opposes(other Faction) bool {
	return f != FactionNeutral && f != other
}

// Projectile снаряд в полёте
type Projectile struct {
	ID        uint64
	OwnerID   uint64
	Faction   Faction
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Origin    mgl64.Vec3
	Travelled float64 // Пройденное расстояние от дула
}

// NewProjectile создаёт снаряд у дула, летящий вдоль dir со скоростью speed
func NewProjectile(id, owner uint64, faction Faction, muzzle, dir mgl64.Vec3, speed float64) *Projectile {
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return &Projectile{
		ID:       id,
		OwnerID:  owner,
		Faction:  faction,
		Position: muzzle,
		Velocity: dir.Mul(speed),
		Origin:   muzzle,
	}
}

// Target цель для проверки попадания
type Target struct {
	ID       uint64
	Faction  Faction
	Position mgl64.Vec3
}
