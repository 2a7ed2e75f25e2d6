package world

import (
	"github.com/annel0/voxel-tanks/internal/vec"
)

// Chunk представляет загруженный участок мира ChunkSize x ChunkSize колонок.
// Хранит координаты вокселей, которыми владеет ("ключи чанка").
type Chunk struct {
	Coords vec.Vec2              // Координаты чанка в мире
	Keys   map[vec.Vec3]struct{} // Координаты принадлежащих чанку вокселей

	ChangeCounter int // Счетчик изменений после загрузки
}

// NewChunk создаёт пустой чанк с указанными координатами
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{
		Coords: coords,
		Keys:   make(map[vec.Vec3]struct{}),
	}
}

// Len возвращает число вокселей чанка
func (c *Chunk) Len() int {
	return len(c.Keys)
}

func (c *Chunk) add(coord vec.Vec3) {
	c.Keys[coord] = struct{}{}
	c.ChangeCounter++
}

func (c *Chunk) remove(coord vec.Vec3) {
	delete(c.Keys, coord)
	c.ChangeCounter++
}
