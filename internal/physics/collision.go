package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
)

// VoxelQuery чтение индекса вокселей, нужное пробе и интегратору
type VoxelQuery interface {
	Grid() world.Grid
	Get(c vec.Vec3) (world.Voxel, bool)
	Occupied(c vec.Vec3) bool
	HeightAt(gx, gz int) float64
}

// Footprint набор точек следа сущности в локальных координатах и радиус для разделения
type Footprint struct {
	Points []mgl64.Vec3
	Radius float64
}

// TankFootprint след танка: четыре угла корпуса на высоте 1 над опорой
func TankFootprint(radius float64) Footprint {
	const halfWidth, halfLength = 2.0, 3.0
	return Footprint{
		Points: []mgl64.Vec3{
			{halfWidth, 1, halfLength},
			{-halfWidth, 1, halfLength},
			{halfWidth, 1, -halfLength},
			{-halfWidth, 1, -halfLength},
		},
		Radius: radius,
	}
}

// Pose мировое положение и рыскание
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
}

// Forward возвращает единичный вектор направления для рыскания yaw
func Forward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// YawTo возвращает рыскание направления из from в to
func YawTo(from, to mgl64.Vec3) float64 {
	return math.Atan2(to.X()-from.X(), to.Z()-from.Z())
}

// WrapAngle приводит угол к диапазону (-Pi, Pi]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// WorldPoints переводит точки следа в мировые координаты для позы
func (f Footprint) WorldPoints(pose Pose) []mgl64.Vec3 {
	rot := mgl64.Rotate3DY(pose.Yaw)
	out := make([]mgl64.Vec3, len(f.Points))
	for i, p := range f.Points {
		out[i] = rot.Mul3x1(p).Add(pose.Position)
	}
	return out
}

// Obstacle другая сущность для проверки разделения
type Obstacle struct {
	ID       uint64
	Position mgl64.Vec3
	Radius   float64
}

// Probe отвечает на вопрос "занято/свободно" для позы и следа
type Probe struct {
	index VoxelQuery
	grid  world.Grid
}

// NewProbe создаёт пробу над индексом
func NewProbe(index VoxelQuery) *Probe {
	return &Probe{index: index, grid: index.Grid()}
}

// IsBlocked проверяет точки следа; возвращает true на первой занятой клетке.
// Это точечная выборка: на больших скоростях узкие щели могут быть пропущены.
func (p *Probe) IsBlocked(pose Pose, fp Footprint) bool {
	for _, wp := range fp.WorldPoints(pose) {
		if p.index.Occupied(p.grid.ToGrid(wp)) {
			return true
		}
	}
	return false
}

// Cells возвращает занятые клетки под точками следа (без повторов)
func (p *Probe) Cells(pose Pose, fp Footprint) []vec.Vec3 {
	var out []vec.Vec3
	for _, wp := range fp.WorldPoints(pose) {
		c := p.grid.ToGrid(wp)
		if !p.index.Occupied(c) {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// IsEntityBlocked проверяет пересечение кругов в горизонтальной плоскости
func IsEntityBlocked(pos mgl64.Vec3, radius float64, selfID uint64, others []Obstacle) bool {
	for _, o := range others {
		if o.ID == selfID {
			continue
		}
		dx := pos.X() - o.Position.X()
		dz := pos.Z() - o.Position.Z()
		r := radius + o.Radius
		if dx*dx+dz*dz < r*r {
			return true
		}
	}
	return false
}

// CanMoveTo проверяет позу и по вокселям, и по другим сущностям
func (p *Probe) CanMoveTo(pose Pose, fp Footprint, selfID uint64, others []Obstacle) bool {
	if p.IsBlocked(pose, fp) {
		return false
	}
	return !IsEntityBlocked(pose.Position, fp.Radius, selfID, others)
}

// HeadingBlocked проверяет, упрётся ли сущность в препятствие через lookahead по курсу yaw
func (p *Probe) HeadingBlocked(pos mgl64.Vec3, yaw, lookahead float64, fp Footprint) bool {
	ahead := pos.Add(Forward(yaw).Mul(lookahead))
	return p.IsBlocked(Pose{Position: ahead, Yaw: yaw}, fp)
}

// HeightSamples возвращает высоты колонок под углами следа и под центром (последним)
func (p *Probe) HeightSamples(pose Pose, fp Footprint) []float64 {
	points := fp.WorldPoints(pose)
	out := make([]float64, 0, len(points)+1)
	for _, wp := range points {
		col := p.grid.ColumnOf(wp.X(), wp.Z())
		out = append(out, p.index.HeightAt(col.X, col.Y))
	}
	center := p.grid.ColumnOf(pose.Position.X(), pose.Position.Z())
	return append(out, p.index.HeightAt(center.X, center.Y))
}
