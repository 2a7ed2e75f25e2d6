package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/vec"
)

// HoleElevation значение карты высот для колонки без вокселей или вне загруженного мира
const HoleElevation = -100.0

// Grid описывает геометрию сетки: размер вокселя, чанка и число занимаемых уровней
type Grid struct {
	VoxelSize    float64
	ChunkSize    int
	HeightLevels int
}

// ToGrid переводит мировую точку в координату сетки.
// Центр вокселя уровня gy находится на высоте gy*VoxelSize - VoxelSize/2.
func (g Grid) ToGrid(p mgl64.Vec3) vec.Vec3 {
	vs := g.VoxelSize
	return vec.Vec3{
		X: roundHalfUp(p.X() / vs),
		Y: roundHalfUp((p.Y() + vs/2) / vs),
		Z: roundHalfUp(p.Z() / vs),
	}
}

// roundHalfUp округляет половину вверх и для отрицательных чисел: -2.5 даёт -2
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ColumnOf возвращает колонку, над которой находится мировая точка (x, z)
func (g Grid) ColumnOf(x, z float64) vec.Vec2 {
	return vec.Vec2{
		X: roundHalfUp(x / g.VoxelSize),
		Y: roundHalfUp(z / g.VoxelSize),
	}
}

// ChunkOf возвращает чанк, которому принадлежит колонка
func (g Grid) ChunkOf(col vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: vec.FloorDiv(col.X, g.ChunkSize), Y: vec.FloorDiv(col.Y, g.ChunkSize)}
}

// ChunkOfPosition возвращает чанк для мировой позиции
func (g Grid) ChunkOfPosition(p mgl64.Vec3) vec.Vec2 {
	span := g.VoxelSize * float64(g.ChunkSize)
	return vec.Vec2{
		X: int(math.Floor(p.X() / span)),
		Y: int(math.Floor(p.Z() / span)),
	}
}

// Center возвращает мировой центр вокселя
func (g Grid) Center(c vec.Vec3) mgl64.Vec3 {
	vs := g.VoxelSize
	return mgl64.Vec3{float64(c.X) * vs, float64(c.Y)*vs - vs/2, float64(c.Z) * vs}
}

// Elevation возвращает высоту верхней грани уровня
func (g Grid) Elevation(level int) float64 {
	return float64(level) * g.VoxelSize
}

// ChunkOrigin возвращает первую колонку чанка
func (g Grid) ChunkOrigin(cc vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: cc.X * g.ChunkSize, Y: cc.Y * g.ChunkSize}
}
