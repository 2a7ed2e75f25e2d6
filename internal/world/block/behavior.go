package block

// Properties описывает фиксированные свойства материала.
// Флаги копируются в воксель при его создании (генерация или мутация).
type Properties struct {
	Name         string
	Destructible bool // Разрушается снарядом
	Pushable     bool // Может быть сдвинут корпусом танка
	Ricochet     bool // Снаряд отскакивает без изменения мира
	Decoration   bool // Не участвует в карте высот
}

// Destructible сообщает, разрушаем ли материал
func (m Material) Destructible() bool {
	p, _ := Get(m)
	return p.Destructible
}

// Pushable сообщает, можно ли толкать материал
func (m Material) Pushable() bool {
	p, _ := Get(m)
	return p.Pushable
}

// Ricochet сообщает, вызывает ли материал рикошет
func (m Material) Ricochet() bool {
	p, _ := Get(m)
	return p.Ricochet
}

// Decoration сообщает, является ли материал декоративным
func (m Material) Decoration() bool {
	p, _ := Get(m)
	return p.Decoration
}
