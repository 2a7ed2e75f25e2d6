package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/entity"
	"github.com/annel0/voxel-tanks/internal/util"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
)

// IsColumnClear сообщает, можно ли поставить юнита на колонку:
// чанк загружен, колонка ровная на уровне земли и рядом нет других сущностей.
func (w *World) IsColumnClear(gx, gz int) bool {
	col := vec.Vec2{X: gx, Y: gz}
	if !w.index.ChunkLoaded(w.grid.ChunkOf(col)) {
		return false
	}
	if w.index.HeightAt(gx, gz) != w.grid.Elevation(world.GroundLevel) {
		return false
	}
	if w.index.Occupied(vec.Vec3{X: gx, Y: world.GroundLevel + 1, Z: gz}) {
		return false
	}
	pos := w.columnPosition(col)
	for _, e := range w.entities.All() {
		if e.HorizontalDistance(pos) < w.cfg.AI.Separation {
			return false
		}
	}
	return true
}

func (w *World) columnPosition(col vec.Vec2) mgl64.Vec3 {
	vs := w.grid.VoxelSize
	return mgl64.Vec3{float64(col.X) * vs, w.index.HeightAt(col.X, col.Y), float64(col.Y) * vs}
}

// spawnHash стабильный хеш колонки для курса и фазы нового юнита
func (w *World) spawnHash(col vec.Vec2, salt uint32) uint32 {
	return util.Hash2(uint32(w.generator.Seed())^salt, int32(col.X), int32(col.Y))
}

func unitFloat(h uint32) float64 {
	return float64(h%10000) / 10000
}

// SpawnHostile ставит враждебный танк на свободную колонку
func (w *World) SpawnHostile(col vec.Vec2, blindSpot bool) (*entity.Entity, error) {
	if !w.IsColumnClear(col.X, col.Y) {
		return nil, ErrColumnBlocked
	}
	yaw := unitFloat(w.spawnHash(col, 0x51)) * 2 * math.Pi
	e := entity.New(w.entities.NextID(), entity.KindHostile, w.columnPosition(col), yaw, w.footprint())
	e.Hostile.BlindSpot = blindSpot
	e.Hostile.PhaseOffset = unitFloat(w.spawnHash(col, 0xa7)) * w.cfg.AI.DutyPeriod
	e.Hostile.SpawnedAt = w.now
	e.Hostile.LandedAt = w.now
	w.entities.Add(e)
	w.logger.Debug("Враждебный юнит %d в колонке (%d,%d), слепая зона=%t", e.ID, col.X, col.Y, blindSpot)
	return e, nil
}

// SpawnCivilian ставит мирную машину на свободную колонку
func (w *World) SpawnCivilian(col vec.Vec2) (*entity.Entity, error) {
	if !w.IsColumnClear(col.X, col.Y) {
		return nil, ErrColumnBlocked
	}
	yaw := unitFloat(w.spawnHash(col, 0xc3)) * 2 * math.Pi
	e := entity.New(w.entities.NextID(), entity.KindCivilian, w.columnPosition(col), yaw, w.footprint())
	w.entities.Add(e)
	w.logger.Debug("Мирная машина %d в колонке (%d,%d)", e.ID, col.X, col.Y)
	return e, nil
}
