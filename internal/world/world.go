package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/logging"
	"github.com/annel0/voxel-tanks/internal/vec"
)

// StreamResult итог обновления стримера за тик
type StreamResult struct {
	Changed bool        // Якорь сменил чанк
	Loaded  []ChunkData // Сгенерированные и зарегистрированные чанки
	Evicted []vec.Vec2  // Выгруженные чанки
}

// Streamer держит загруженными чанки в квадратном окне вокруг якоря
type Streamer struct {
	grid         Grid
	index        *Index
	generator    *Generator
	drawDistance int

	anchor    vec.Vec2
	hasAnchor bool
	logger    *logging.Logger
}

// NewStreamer создаёт стример над индексом
func NewStreamer(index *Index, generator *Generator, drawDistance int) *Streamer {
	return &Streamer{
		grid:         index.Grid(),
		index:        index,
		generator:    generator,
		drawDistance: drawDistance,
		logger:       logging.GetWorldLogger(),
	}
}

// Anchor возвращает текущий чанк якоря
func (s *Streamer) Anchor() (vec.Vec2, bool) {
	return s.anchor, s.hasAnchor
}

// Reset забывает последний якорь: следующий Update пересчитает окно
func (s *Streamer) Reset() {
	s.hasAnchor = false
}

// InWindow сообщает, попадает ли чанк в окно текущего якоря
func (s *Streamer) InWindow(cc vec.Vec2) bool {
	return s.hasAnchor && s.anchor.ChebyshevTo(cc) <= s.drawDistance
}

// Update загружает недостающие и выгружает лишние чанки.
// Если чанк якоря не изменился с прошлого вызова, ничего не делает.
func (s *Streamer) Update(anchor mgl64.Vec3) StreamResult {
	cc := s.grid.ChunkOfPosition(anchor)
	if s.hasAnchor && cc == s.anchor {
		return StreamResult{}
	}
	s.anchor = cc
	s.hasAnchor = true

	result := StreamResult{Changed: true}
	for dx := -s.drawDistance; dx <= s.drawDistance; dx++ {
		for dz := -s.drawDistance; dz <= s.drawDistance; dz++ {
			target := vec.Vec2{X: cc.X + dx, Y: cc.Y + dz}
			if s.index.ChunkLoaded(target) {
				continue
			}
			data := s.generator.Generate(target.X, target.Y)
			if s.index.LoadChunk(data) {
				result.Loaded = append(result.Loaded, data)
			}
		}
	}

	for _, loaded := range s.index.LoadedChunks() {
		if cc.ChebyshevTo(loaded) <= s.drawDistance {
			continue
		}
		if s.index.UnloadChunk(loaded) {
			result.Evicted = append(result.Evicted, loaded)
		}
	}

	s.logger.Debug("Якорь в чанке (%d,%d): загружено %d, выгружено %d",
		cc.X, cc.Y, len(result.Loaded), len(result.Evicted))
	return result
}
