package main

import (
	"math"

	"github.com/annel0/voxel-tanks/internal/physics"
	"github.com/annel0/voxel-tanks/internal/sim"
)

// autopilot заменяет ввод игрока: наводится на захваченную цель, иначе катается по синусоиде
type autopilot struct {
	elapsed float64
}

func (a *autopilot) Intent(w *sim.World, dt float64) sim.PlayerIntent {
	a.elapsed += dt
	player, ok := w.Player()
	if !ok {
		return sim.PlayerIntent{}
	}

	if id := player.Combat.TargetID; id != 0 {
		if target, ok := w.Entity(id); ok {
			err := physics.WrapAngle(physics.YawTo(player.Position, target.Position) - player.Yaw)
			return sim.PlayerIntent{
				Turn:     math.Max(-1, math.Min(1, err*4)),
				Throttle: 0.5,
				Fire:     math.Abs(err) < 0.05,
			}
		}
	}
	return sim.PlayerIntent{
		Turn:     0.3 * math.Sin(a.elapsed/4),
		Throttle: 1,
	}
}
