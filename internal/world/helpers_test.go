package world

import (
	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

func testGrid() Grid {
	return Grid{VoxelSize: 5, ChunkSize: 10, HeightLevels: 4}
}

func testWorldConfig() config.WorldConfig {
	return config.Default().World
}

// flatChunk возвращает чанк, в котором каждая колонка имеет только базовый воксель
func flatChunk(g Grid, cc vec.Vec2) ChunkData {
	origin := g.ChunkOrigin(cc)
	data := ChunkData{Coords: cc, Heights: make([]float64, g.ChunkSize*g.ChunkSize)}
	for lx := 0; lx < g.ChunkSize; lx++ {
		for lz := 0; lz < g.ChunkSize; lz++ {
			data.Voxels = append(data.Voxels, GeneratedVoxel{
				Coord: vec.Vec3{X: origin.X + lx, Y: 0, Z: origin.Y + lz},
				Voxel: NewVoxel(block.Soil, 0),
			})
		}
	}
	return data
}

// flatIndex создаёт индекс с ровными чанками в квадрате радиуса r вокруг (0,0)
func flatIndex(r int) *Index {
	g := testGrid()
	ix := NewIndex(g)
	for cx := -r; cx <= r; cx++ {
		for cz := -r; cz <= r; cz++ {
			ix.LoadChunk(flatChunk(g, vec.Vec2{X: cx, Y: cz}))
		}
	}
	return ix
}

// columnTop возвращает высоту верхнего вокселя колонки полным перебором индекса
func columnTop(ix *Index, gx, gz int) float64 {
	best := -1
	ix.ForEach(func(c vec.Vec3, _ Voxel) bool {
		if c.X == gx && c.Z == gz && c.Y < ix.grid.HeightLevels && c.Y > best {
			best = c.Y
		}
		return true
	})
	if best < 0 {
		return HoleElevation
	}
	return ix.grid.Elevation(best)
}
