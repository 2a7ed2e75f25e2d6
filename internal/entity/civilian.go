package entity

import (
	"math"

	"github.com/annel0/voxel-tanks/internal/physics"
	"github.com/annel0/voxel-tanks/internal/util"
)

// Параметры блуждания мирных машин
const (
	wanderPeriod = 6.0         // Секунд между сменами курса
	wanderDrift  = math.Pi / 6 // Величина смены курса
)

// Wander решение мирной машины: едет по курсу, объезжает препятствия, периодически меняет курс.
// Смена курса детерминирована: знак берётся из хеша ID и номера смены.
func (e *Entity) Wander(ctx *Context) Decision {
	c := e.Civilian
	if c == nil {
		return Decision{}
	}

	if ctx.Now >= c.NextTurn {
		if c.NextTurn > 0 {
			if util.Hash2(uint32(e.ID), int32(c.Turns), 0)&1 == 0 {
				c.Heading += wanderDrift
			} else {
				c.Heading -= wanderDrift
			}
			c.Turns++
		}
		c.NextTurn = ctx.Now + wanderPeriod
	}

	if ctx.Probe != nil && ctx.Probe.HeadingBlocked(e.Position, c.Heading, deflectLookahead, e.Footprint) {
		turned := false
		for _, off := range deflectOffsets {
			if !ctx.Probe.HeadingBlocked(e.Position, c.Heading+off, deflectLookahead, e.Footprint) {
				c.Heading += off
				turned = true
				break
			}
		}
		if !turned {
			c.Heading += math.Pi
		}
	}
	c.Heading = physics.WrapAngle(c.Heading)

	var d Decision
	err := physics.WrapAngle(c.Heading - e.Yaw)
	if maxStep := ctx.Params.RotationSpeed * ctx.Dt; maxStep > 0 {
		d.Turn = math.Max(-1, math.Min(1, err/maxStep))
	}
	if math.Abs(err) < ctx.Params.MoveFacing {
		d.Throttle = 1
	}
	return d
}
