package entity

import (
	"math"

	"github.com/annel0/voxel-tanks/internal/physics"
)

// UpdateLock пересчитывает захват цели: ближайший враждебный юнит в пределах
// дальности и угла от курса корпуса. Возвращает ID цели или 0.
func (e *Entity) UpdateLock(candidates []*Entity, lockRange, lockAngle float64) uint64 {
	if e.Combat == nil {
		return 0
	}
	best, bestDist := uint64(0), math.Inf(1)
	for _, c := range candidates {
		if c.ID == e.ID || c.Kind != KindHostile {
			continue
		}
		d := e.HorizontalDistance(c.Position)
		if d > lockRange || d >= bestDist {
			continue
		}
		if math.Abs(physics.WrapAngle(physics.YawTo(e.Position, c.Position)-e.Yaw)) > lockAngle {
			continue
		}
		best, bestDist = c.ID, d
	}
	e.Combat.TargetID = best
	e.Combat.Locked = best != 0
	return best
}
