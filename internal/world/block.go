package world

import (
	"github.com/annel0/voxel-tanks/internal/world/block"
)

// Voxel запись индекса вокселей
type Voxel struct {
	Material     block.Material // Класс материала
	Destructible bool           // Копия флага материала на момент создания
	Pushable     bool           // Копия флага материала на момент создания
	Shade        uint8          // Вариант оттенка для рендера, логикой не используется
}

// NewVoxel создаёт воксель с флагами из таблицы свойств материала
func NewVoxel(m block.Material, shade uint8) Voxel {
	props, _ := block.Get(m)
	return Voxel{
		Material:     m,
		Destructible: props.Destructible,
		Pushable:     props.Pushable,
		Shade:        shade,
	}
}
