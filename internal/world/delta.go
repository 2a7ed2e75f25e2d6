package world

import (
	"github.com/annel0/voxel-tanks/internal/vec"
)

// DeltaKind тип изменения вокселя
type DeltaKind uint8

const (
	DeltaRemoved  DeltaKind = iota // Воксель удалён
	DeltaInserted                  // Воксель добавлен
)

// VoxelDelta одно изменение индекса, накопленное для рендера
type VoxelDelta struct {
	Kind  DeltaKind
	Coord vec.Vec3
	Voxel Voxel
}

// deltaLog накапливает изменения между вызовами DrainDelta.
// Загрузка и выгрузка чанков сюда не попадают: о них сообщает Streamer.
type deltaLog struct {
	changes []VoxelDelta
}

func (d *deltaLog) record(kind DeltaKind, coord vec.Vec3, v Voxel) {
	d.changes = append(d.changes, VoxelDelta{Kind: kind, Coord: coord, Voxel: v})
}

// drain возвращает накопленные изменения и очищает журнал
func (d *deltaLog) drain() []VoxelDelta {
	if len(d.changes) == 0 {
		return nil
	}
	out := d.changes
	d.changes = nil
	return out
}
