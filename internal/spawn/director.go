// Package spawn размещает враждебных и мирных юнитов в новых чанках.
package spawn

import (
	"sync/atomic"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/logging"
	"github.com/annel0/voxel-tanks/internal/sim"
	"github.com/annel0/voxel-tanks/internal/util"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
)

// reinforcementOffsets колонки подкрепления относительно кандидата
var reinforcementOffsets = []vec.Vec2{
	{X: 2, Y: 0}, {X: -2, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: -2},
}

// Director реализует sim.Spawner: ставит юнитов на кандидатов генератора.
// Число подкреплений растёт со сложностью, а доля юнитов со слепой зоной падает.
// Сложность задаётся извне (SetDifficulty) и может меняться из другой горутины.
type Director struct {
	seed           uint32
	reinforcement  int
	blindSpotShare float64
	difficulty     atomic.Int32
	logger         *logging.Logger
}

// NewDirector создаёт директора по конфигурации
func NewDirector(cfg *config.Config) *Director {
	return &Director{
		seed:           uint32(cfg.World.Seed),
		reinforcement:  cfg.Sim.Reinforcement,
		blindSpotShare: cfg.AI.BlindSpotShare,
		logger:         logging.GetSpawnLogger(),
	}
}

// SetDifficulty задаёт уровень сложности (отрицательные значения приводятся к нулю)
func (d *Director) SetDifficulty(level int) {
	if level < 0 {
		level = 0
	}
	if old := d.difficulty.Swap(int32(level)); int(old) != level {
		d.logger.Info("Сложность изменена: %d -> %d", old, level)
	}
}

// RaiseDifficulty повышает сложность до level; более низкие значения игнорируются
func (d *Director) RaiseDifficulty(level int) {
	for {
		old := d.difficulty.Load()
		if int32(level) <= old {
			return
		}
		if d.difficulty.CompareAndSwap(old, int32(level)) {
			d.logger.Info("Сложность повышена: %d -> %d", old, level)
			return
		}
	}
}

// Difficulty текущий уровень сложности
func (d *Director) Difficulty() int {
	return int(d.difficulty.Load())
}

// Reinforcements число враждебных юнитов на одного кандидата
func (d *Director) Reinforcements() int {
	n := 1 + d.Difficulty()*d.reinforcement
	if limit := 1 + len(reinforcementOffsets); n > limit {
		n = limit
	}
	return n
}

// BlindSpotShare доля новых юнитов со слепой зоной
func (d *Director) BlindSpotShare() float64 {
	return d.blindSpotShare / float64(1+d.Difficulty())
}

// blindSpot детерминированный выбор слепой зоны по колонке
func (d *Director) blindSpot(col vec.Vec2) bool {
	h := util.Hash2(d.seed^0x5b1d, int32(col.X), int32(col.Y))
	return float64(h%10000)/10000 < d.BlindSpotShare()
}

// ChunksLoaded размещает юнитов на кандидатах новых чанков
func (d *Director) ChunksLoaded(w *sim.World, chunks []world.ChunkData) {
	hostiles, civilians := 0, 0
	for _, chunk := range chunks {
		for _, cand := range chunk.SpawnCandidates {
			switch cand.Kind {
			case world.SpawnHostile:
				hostiles += d.spawnSquad(w, cand.Column)
			case world.SpawnCivilian:
				if _, err := w.SpawnCivilian(cand.Column); err == nil {
					civilians++
				}
			}
		}
	}
	if hostiles+civilians > 0 {
		d.logger.Debug("Новые чанки: %d, враждебных %d, мирных %d (сложность %d)",
			len(chunks), hostiles, civilians, d.Difficulty())
	}
}

// spawnSquad ставит юнита на кандидата и подкрепления вокруг него
func (d *Director) spawnSquad(w *sim.World, col vec.Vec2) int {
	placed := 0
	want := d.Reinforcements()
	columns := []vec.Vec2{col}
	for _, off := range reinforcementOffsets {
		columns = append(columns, col.Add(off))
	}
	for _, c := range columns {
		if placed == want {
			break
		}
		if _, err := w.SpawnHostile(c, d.blindSpot(c)); err == nil {
			placed++
		}
	}
	return placed
}
