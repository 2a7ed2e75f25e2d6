package world

import "github.com/pkg/errors"

// Отказы политики: обычные возвращаемые значения, индекс при этом не меняется
var (
	ErrOccupied       = errors.New("координата уже занята вокселем")
	ErrChunkNotLoaded = errors.New("чанк не загружен")
	ErrNoVoxel        = errors.New("воксель отсутствует")
	ErrIndestructible = errors.New("материал неразрушим")
	ErrGroundLevel    = errors.New("воксель уровня земли не разрушается")
	ErrObstructed     = errors.New("место для постройки занято или без опоры")
)
