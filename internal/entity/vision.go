package entity

import (
	"math"

	"github.com/annel0/voxel-tanks/internal/config"
)

// DutyActive сообщает, находится ли юнит в активной фазе цикла.
// Фаза повторяется с периодом period; первые active секунд периода активны.
func DutyActive(now, phase, period, active float64) bool {
	if period <= 0 {
		return true
	}
	t := math.Mod(now+phase, period)
	if t < 0 {
		t += period
	}
	return t < active
}

// CanSee предикат видимости цели.
// Тревога и дальняя цель видны всегда; иначе ошибка курса должна быть внутри полуугла обзора.
func CanSee(alerted bool, distance, facingError float64, blindSpot bool, p config.AIConfig) bool {
	if alerted || distance >= p.LongRange {
		return true
	}
	half := p.VisionHalfAngle
	if blindSpot {
		half = p.BlindSpotHalfAngle
	}
	return math.Abs(facingError) <= half
}
