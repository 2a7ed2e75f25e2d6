package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

// Mutator применяет разрушение, сдвиг и вставку вокселей.
// Каждая операция либо выполняется целиком, либо не меняет индекс.
type Mutator struct {
	index *Index
}

// NewMutator создаёт мутатор над индексом
func NewMutator(index *Index) *Mutator {
	return &Mutator{index: index}
}

// Destroy удаляет разрушаемый воксель выше уровня земли и возвращает его материал.
// Отказ (ErrNoVoxel, ErrGroundLevel, ErrIndestructible) означает рикошет для вызывающего.
func (m *Mutator) Destroy(c vec.Vec3) (block.Material, error) {
	v, ok := m.index.Get(c)
	if !ok {
		return 0, ErrNoVoxel
	}
	if c.Y <= GroundLevel {
		return v.Material, ErrGroundLevel
	}
	if !v.Destructible {
		return v.Material, ErrIndestructible
	}

	m.index.Remove(c)
	return v.Material, nil
}

// SnapPushDirection приводит смещение к доминирующей горизонтальной оси.
// При равных компонентах выбирается Z. Нулевое смещение даёт ok == false.
func SnapPushDirection(dir mgl64.Vec3) (vec.Vec3, bool) {
	dx, dz := dir.X(), dir.Z()
	var step vec.Vec3
	if math.Abs(dx) > math.Abs(dz) {
		step.X = sign(dx)
	} else {
		step.Z = sign(dz)
	}
	if step.X == 0 && step.Z == 0 {
		return vec.Vec3{}, false
	}
	return step, true
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// AttemptPush сдвигает толкаемый воксель на одну клетку по доминирующей оси dir.
// Назначение должно быть свободно, иметь опору снизу и лежать в загруженном чанке.
func (m *Mutator) AttemptPush(c vec.Vec3, dir mgl64.Vec3) (vec.Vec3, bool) {
	v, ok := m.index.Get(c)
	if !ok || !v.Pushable {
		return vec.Vec3{}, false
	}
	step, ok := SnapPushDirection(dir)
	if !ok {
		return vec.Vec3{}, false
	}

	dest := c.Add(step)
	if m.index.Occupied(dest) || !m.index.Occupied(dest.Below()) {
		return vec.Vec3{}, false
	}
	if !m.index.ChunkLoaded(m.index.grid.ChunkOf(dest.Column())) {
		return vec.Vec3{}, false
	}

	m.index.Remove(c)
	if err := m.index.Insert(dest, v); err != nil {
		// Недостижимо после проверок выше; возвращаем воксель на место
		_ = m.index.Insert(c, v)
		return vec.Vec3{}, false
	}
	return dest, true
}

// InsertBuilding ставит блок здания width x depth x height с нижним углом origin.
// Все клетки должны быть свободны и загружены, а под первым уровнем нужна опора.
func (m *Mutator) InsertBuilding(origin vec.Vec3, width, depth, height int) (int, error) {
	if width <= 0 || depth <= 0 || height <= 0 {
		return 0, ErrObstructed
	}
	if origin.Y <= GroundLevel || origin.Y+height > m.index.grid.HeightLevels {
		return 0, ErrObstructed
	}

	for dx := 0; dx < width; dx++ {
		for dz := 0; dz < depth; dz++ {
			base := vec.Vec3{X: origin.X + dx, Y: origin.Y, Z: origin.Z + dz}
			if !m.index.ChunkLoaded(m.index.grid.ChunkOf(base.Column())) {
				return 0, ErrChunkNotLoaded
			}
			if !m.index.Occupied(base.Below()) {
				return 0, ErrObstructed
			}
			for level := 0; level < height; level++ {
				if m.index.Occupied(vec.Vec3{X: base.X, Y: base.Y + level, Z: base.Z}) {
					return 0, ErrObstructed
				}
			}
		}
	}

	placed := 0
	for dx := 0; dx < width; dx++ {
		for dz := 0; dz < depth; dz++ {
			for level := 0; level < height; level++ {
				c := vec.Vec3{X: origin.X + dx, Y: origin.Y + level, Z: origin.Z + dz}
				if err := m.index.Insert(c, NewVoxel(block.Building, 0)); err != nil {
					return placed, err
				}
				placed++
			}
		}
	}
	return placed, nil
}
