package vec

// Vec3 представляет целочисленную координату сетки вокселей
type Vec3 struct {
	X int
	Y int
	Z int
}

// Column возвращает колонку (x, z), которой принадлежит координата
func (v Vec3) Column() Vec2 {
	return Vec2{X: v.X, Y: v.Z}
}

// Below возвращает координату непосредственно под текущей
func (v Vec3) Below() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// DistanceSq возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceSq(other Vec3) int {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}
