package world

import (
	"math"
	"math/rand"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/util"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

// Уровни генерации
const (
	GroundLevel   = 0  // Базовая поверхность
	CloudBase     = 10 // Нижняя граница облаков
	spawnHalfSize = 1  // Полуразмер гарантированно ровного квадрата у начала координат
)

// Оттенки дёрна
const (
	ShadeGreen uint8 = iota
	ShadeTeal
	ShadeDark
)

// SpawnKind вид кандидата на появление
type SpawnKind uint8

const (
	SpawnHostile SpawnKind = iota
	SpawnCivilian
)

// SpawnCandidate колонка, пригодная для появления юнита
type SpawnCandidate struct {
	Kind   SpawnKind
	Column vec.Vec2
}

// GeneratedVoxel воксель, созданный генератором
type GeneratedVoxel struct {
	Coord vec.Vec3
	Voxel Voxel
}

// ChunkData результат генерации чанка
type ChunkData struct {
	Coords          vec.Vec2
	Voxels          []GeneratedVoxel
	Heights         []float64 // По колонкам, порядок x затем z
	SpawnCandidates []SpawnCandidate
}

// HeightAt возвращает высоту колонки по локальным координатам
func (d ChunkData) HeightAt(chunkSize, lx, lz int) float64 {
	return d.Heights[lx*chunkSize+lz]
}

// Generator детерминированный генератор чанков.
// Результат зависит только от координат чанка и сида мира.
type Generator struct {
	grid     Grid
	cfg      config.WorldConfig
	district *util.NoiseField // Поле "городских кварталов" для построек
}

// NewGenerator создаёт генератор для сетки и параметров мира
func NewGenerator(grid Grid, cfg config.WorldConfig) *Generator {
	return &Generator{
		grid:     grid,
		cfg:      cfg,
		district: util.NewNoiseField(cfg.Seed, 0.02),
	}
}

// Seed возвращает сид мира
func (g *Generator) Seed() int64 {
	return g.cfg.Seed
}

// chunkRand создаёт генератор случайных чисел чанка из хеша его координат
func (g *Generator) chunkRand(cc vec.Vec2) *rand.Rand {
	seed := util.Hash2(uint32(g.cfg.Seed), int32(cc.X), int32(cc.Y))
	return rand.New(rand.NewSource(int64(seed)))
}

// IsRoad сообщает, лежит ли колонка на дорожной линии
func (g *Generator) IsRoad(gx, gz int) bool {
	half := g.cfg.RoadSpacing / 2
	return vec.FloorMod(gx, g.cfg.RoadSpacing) == half || vec.FloorMod(gz, g.cfg.RoadSpacing) == half
}

// inSpawnSquare сообщает, входит ли колонка в ровный квадрат вокруг начала координат
func inSpawnSquare(gx, gz int) bool {
	return gx >= -spawnHalfSize && gx <= spawnHalfSize && gz >= -spawnHalfSize && gz <= spawnHalfSize
}

// CloudLevel возвращает уровень облака над колонкой; ok == false, если облака нет
func CloudLevel(gx, gz int) (int, bool) {
	x, z := float64(gx), float64(gz)
	n := math.Sin(x*0.1) + math.Sin(z*0.15) + math.Sin((x+z)*0.05)
	if n <= 1.4 {
		return 0, false
	}
	return CloudBase + int(math.Floor(math.Abs(math.Sin(x*0.5))*3)), true
}

// Generate создаёт содержимое чанка (cx, cz)
func (g *Generator) Generate(cx, cz int) ChunkData {
	cc := vec.Vec2{X: cx, Y: cz}
	cs := g.grid.ChunkSize
	rng := g.chunkRand(cc)
	origin := g.grid.ChunkOrigin(cc)

	data := ChunkData{
		Coords:  cc,
		Voxels:  make([]GeneratedVoxel, 0, cs*cs+cs),
		Heights: make([]float64, cs*cs),
	}

	// Верхний занятый уровень каждой колонки (облака не учитываются)
	top := make([]int, cs*cs)
	emit := func(gx, level, gz int, m block.Material, shade uint8) {
		data.Voxels = append(data.Voxels, GeneratedVoxel{
			Coord: vec.Vec3{X: gx, Y: level, Z: gz},
			Voxel: NewVoxel(m, shade),
		})
		if level < g.grid.HeightLevels {
			lx, lz := gx-origin.X, gz-origin.Y
			if level > top[lx*cs+lz] {
				top[lx*cs+lz] = level
			}
		}
	}

	for lx := 0; lx < cs; lx++ {
		for lz := 0; lz < cs; lz++ {
			gx, gz := origin.X+lx, origin.Y+lz
			road := g.IsRoad(gx, gz)

			// Базовая поверхность есть всегда
			shadeRoll := rng.Float64()
			if road {
				emit(gx, GroundLevel, gz, block.Road, ShadeDark)
			} else {
				shade := ShadeGreen
				if shadeRoll > 0.95 {
					shade = ShadeDark
				} else if shadeRoll > 0.8 {
					shade = ShadeTeal
				}
				emit(gx, GroundLevel, gz, block.Soil, shade)
			}

			// Холмы
			r := rng.Float64()
			if !road && !inSpawnSquare(gx, gz) && r > 1-g.cfg.HillChance {
				if r > 1-g.cfg.TallChance {
					emit(gx, 1, gz, block.Core, 0)
					emit(gx, 2, gz, block.Core, 0)
					if rng.Float64() > 0.9 && g.grid.HeightLevels > 3 {
						emit(gx, 3, gz, block.Core, 0)
					}
				} else {
					m := block.Rock
					if rng.Float64() > 0.5 {
						m = block.Snow
					}
					emit(gx, 1, gz, m, 0)
				}
			}

			// Облака высоко над землёй, без состояния
			if level, ok := CloudLevel(gx, gz); ok {
				emit(gx, level, gz, block.Cloud, 0)
			}
		}
	}

	g.placeBuilding(rng, cc, top, emit)

	for i, level := range top {
		data.Heights[i] = g.grid.Elevation(level)
	}

	data.SpawnCandidates = g.spawnCandidates(rng, cc, top)
	return data
}

// placeBuilding ставит одну постройку 2x2 в "городском" чанке
func (g *Generator) placeBuilding(rng *rand.Rand, cc vec.Vec2, top []int, emit func(gx, level, gz int, m block.Material, shade uint8)) {
	cs := g.grid.ChunkSize
	if cs < 4 || g.grid.HeightLevels < 2 {
		return
	}
	origin := g.grid.ChunkOrigin(cc)
	centerX := float64(origin.X) + float64(cs)/2
	centerZ := float64(origin.Y) + float64(cs)/2
	if g.district.At(centerX, centerZ) <= g.cfg.BuildingThreshold {
		return
	}
	if rng.Float64() >= g.cfg.BuildingChance {
		return
	}

	lx := 1 + rng.Intn(cs-3)
	lz := 1 + rng.Intn(cs-3)
	height := 1 + rng.Intn(3)
	if height > g.grid.HeightLevels-1 {
		height = g.grid.HeightLevels - 1
	}

	for dx := 0; dx < 2; dx++ {
		for dz := 0; dz < 2; dz++ {
			gx, gz := origin.X+lx+dx, origin.Y+lz+dz
			if top[(lx+dx)*cs+lz+dz] != GroundLevel || g.IsRoad(gx, gz) || inSpawnSquare(gx, gz) {
				return
			}
		}
	}

	for dx := 0; dx < 2; dx++ {
		for dz := 0; dz < 2; dz++ {
			for level := 1; level <= height; level++ {
				emit(origin.X+lx+dx, level, origin.Y+lz+dz, block.Building, 0)
			}
		}
	}
}

// spawnCandidates сообщает ровные свободные колонки для враждебных и мирных юнитов
func (g *Generator) spawnCandidates(rng *rand.Rand, cc vec.Vec2, top []int) []SpawnCandidate {
	cs := g.grid.ChunkSize
	origin := g.grid.ChunkOrigin(cc)
	var out []SpawnCandidate

	if (cc != vec.Vec2{}) && cs >= 3 && rng.Float64() > 1-g.cfg.HostileChance {
		lx := 1 + rng.Intn(cs-2)
		lz := 1 + rng.Intn(cs-2)
		flat := true
		for dx := -1; dx <= 1 && flat; dx++ {
			for dz := -1; dz <= 1; dz++ {
				if top[(lx+dx)*cs+lz+dz] != GroundLevel {
					flat = false
					break
				}
			}
		}
		if flat {
			out = append(out, SpawnCandidate{
				Kind:   SpawnHostile,
				Column: vec.Vec2{X: origin.X + lx, Y: origin.Y + lz},
			})
		}
	}

	if rng.Float64() < g.cfg.CivilianChance {
	search:
		for lx := 0; lx < cs; lx++ {
			for lz := 0; lz < cs; lz++ {
				gx, gz := origin.X+lx, origin.Y+lz
				if g.IsRoad(gx, gz) && top[lx*cs+lz] == GroundLevel && !inSpawnSquare(gx, gz) {
					out = append(out, SpawnCandidate{Kind: SpawnCivilian, Column: vec.Vec2{X: gx, Y: gz}})
					break search
				}
			}
		}
	}

	return out
}
