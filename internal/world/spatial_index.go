package world

import (
	"sort"

	"github.com/annel0/voxel-tanks/internal/vec"
)

// Index разреженный индекс вокселей с производной картой высот.
//
// Индекс принадлежит тику симуляции и не синхронизирован: все изменения
// выполняются последовательно в одном логическом потоке.
type Index struct {
	grid    Grid
	voxels  map[vec.Vec3]Voxel
	heights map[vec.Vec2]float64 // Только колонки загруженных чанков
	chunks  map[vec.Vec2]*Chunk
	deltas  deltaLog
}

// NewIndex создаёт пустой индекс для заданной сетки
func NewIndex(grid Grid) *Index {
	return &Index{
		grid:    grid,
		voxels:  make(map[vec.Vec3]Voxel),
		heights: make(map[vec.Vec2]float64),
		chunks:  make(map[vec.Vec2]*Chunk),
	}
}

// Grid возвращает геометрию сетки индекса
func (ix *Index) Grid() Grid {
	return ix.grid
}

// Get возвращает воксель по координате
func (ix *Index) Get(c vec.Vec3) (Voxel, bool) {
	v, ok := ix.voxels[c]
	return v, ok
}

// Occupied сообщает, занята ли координата
func (ix *Index) Occupied(c vec.Vec3) bool {
	_, ok := ix.voxels[c]
	return ok
}

// Len возвращает число вокселей в индексе
func (ix *Index) Len() int {
	return len(ix.voxels)
}

// Insert добавляет воксель. Координата должна быть свободна, а её чанк загружен.
func (ix *Index) Insert(c vec.Vec3, v Voxel) error {
	chunk, ok := ix.chunks[ix.grid.ChunkOf(c.Column())]
	if !ok {
		return ErrChunkNotLoaded
	}
	if _, exists := ix.voxels[c]; exists {
		return ErrOccupied
	}

	ix.voxels[c] = v
	chunk.add(c)
	ix.recomputeColumn(c.Column())
	ix.deltas.record(DeltaInserted, c, v)
	return nil
}

// Remove удаляет воксель и пересчитывает высоту его колонки
func (ix *Index) Remove(c vec.Vec3) (Voxel, bool) {
	v, ok := ix.voxels[c]
	if !ok {
		return Voxel{}, false
	}

	delete(ix.voxels, c)
	if chunk, loaded := ix.chunks[ix.grid.ChunkOf(c.Column())]; loaded {
		chunk.remove(c)
	}
	ix.recomputeColumn(c.Column())
	ix.deltas.record(DeltaRemoved, c, v)
	return v, true
}

// HeightAt возвращает высоту колонки или HoleElevation для незагруженной колонки
func (ix *Index) HeightAt(gx, gz int) float64 {
	h, ok := ix.heights[vec.Vec2{X: gx, Y: gz}]
	if !ok {
		return HoleElevation
	}
	return h
}

// TerrainHeight возвращает высоту колонки под мировой точкой (x, z)
func (ix *Index) TerrainHeight(x, z float64) float64 {
	col := ix.grid.ColumnOf(x, z)
	return ix.HeightAt(col.X, col.Y)
}

// TopLevel возвращает верхний занятый уровень колонки или -1
func (ix *Index) TopLevel(gx, gz int) int {
	for level := ix.grid.HeightLevels - 1; level >= 0; level-- {
		if ix.Occupied(vec.Vec3{X: gx, Y: level, Z: gz}) {
			return level
		}
	}
	return -1
}

// recomputeColumn сканирует ограниченное число уровней сверху вниз: O(уровней)
func (ix *Index) recomputeColumn(col vec.Vec2) {
	if _, loaded := ix.chunks[ix.grid.ChunkOf(col)]; !loaded {
		delete(ix.heights, col)
		return
	}
	level := ix.TopLevel(col.X, col.Y)
	if level < 0 {
		ix.heights[col] = HoleElevation
		return
	}
	ix.heights[col] = ix.grid.Elevation(level)
}

// ChunkLoaded сообщает, загружен ли чанк
func (ix *Index) ChunkLoaded(cc vec.Vec2) bool {
	_, ok := ix.chunks[cc]
	return ok
}

// Chunk возвращает загруженный чанк
func (ix *Index) Chunk(cc vec.Vec2) (*Chunk, bool) {
	c, ok := ix.chunks[cc]
	return c, ok
}

// LoadedChunks возвращает координаты загруженных чанков в детерминированном порядке
func (ix *Index) LoadedChunks() []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(ix.chunks))
	for cc := range ix.chunks {
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// LoadChunk регистрирует воксели сгенерированного чанка.
// Повторная загрузка того же чанка ничего не делает и возвращает false.
func (ix *Index) LoadChunk(data ChunkData) bool {
	if _, loaded := ix.chunks[data.Coords]; loaded {
		return false
	}

	chunk := NewChunk(data.Coords)
	ix.chunks[data.Coords] = chunk
	for _, gv := range data.Voxels {
		if _, exists := ix.voxels[gv.Coord]; exists {
			continue
		}
		ix.voxels[gv.Coord] = gv.Voxel
		chunk.Keys[gv.Coord] = struct{}{}
	}

	origin := ix.grid.ChunkOrigin(data.Coords)
	for lx := 0; lx < ix.grid.ChunkSize; lx++ {
		for lz := 0; lz < ix.grid.ChunkSize; lz++ {
			ix.recomputeColumn(vec.Vec2{X: origin.X + lx, Y: origin.Y + lz})
		}
	}
	return true
}

// UnloadChunk удаляет все воксели чанка и высоты его колонок.
// Повторная выгрузка ничего не делает и возвращает false.
func (ix *Index) UnloadChunk(cc vec.Vec2) bool {
	chunk, loaded := ix.chunks[cc]
	if !loaded {
		return false
	}

	for c := range chunk.Keys {
		delete(ix.voxels, c)
	}
	delete(ix.chunks, cc)

	origin := ix.grid.ChunkOrigin(cc)
	for lx := 0; lx < ix.grid.ChunkSize; lx++ {
		for lz := 0; lz < ix.grid.ChunkSize; lz++ {
			delete(ix.heights, vec.Vec2{X: origin.X + lx, Y: origin.Y + lz})
		}
	}
	return true
}

// ForEach обходит все воксели (порядок не определён). Возврат false прерывает обход.
func (ix *Index) ForEach(fn func(c vec.Vec3, v Voxel) bool) {
	for c, v := range ix.voxels {
		if !fn(c, v) {
			return
		}
	}
}

// DrainDelta возвращает изменения с прошлого вызова ("только что изменённые" воксели)
func (ix *Index) DrainDelta() []VoxelDelta {
	return ix.deltas.drain()
}

// Clear удаляет всё содержимое индекса
func (ix *Index) Clear() {
	ix.voxels = make(map[vec.Vec3]Voxel)
	ix.heights = make(map[vec.Vec2]float64)
	ix.chunks = make(map[vec.Vec2]*Chunk)
	ix.deltas = deltaLog{}
}
