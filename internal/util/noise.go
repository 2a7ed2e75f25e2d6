package util

import (
	"github.com/aquilax/go-perlin"
)

// NoiseField детерминированное поле шума Перлина с собственным сидом.
// Экземпляры независимы: несколько миров с разными сидами не мешают друг другу.
type NoiseField struct {
	noise *perlin.Perlin
	scale float64
}

// NewNoiseField создает поле шума с указанным сидом и масштабом координат
func NewNoiseField(seed int64, scale float64) *NoiseField {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &NoiseField{
		noise: perlin.NewPerlin(alpha, beta, n, seed),
		scale: scale,
	}
}

// At возвращает значение шума для указанных координат (от 0 до 1)
func (f *NoiseField) At(x, y float64) float64 {
	// Значение шума от -1 до 1
	v := f.noise.Noise2D(x*f.scale, y*f.scale)
	v = (v + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
