package block

var registry = make(map[Material]Properties)

// Register добавляет свойства материала в регистр
func Register(m Material, props Properties) {
	registry[m] = props
}

// Get возвращает свойства для указанного материала
func Get(m Material) (Properties, bool) {
	props, exists := registry[m]
	return props, exists
}

// IsValid проверяет, является ли материал зарегистрированным
func IsValid(m Material) bool {
	_, exists := registry[m]
	return exists
}

// Material представляет класс материала вокселя
type Material uint8

const (
	Soil     Material = iota + 1 // Дёрн, базовая поверхность
	Rock                         // Холм
	Core                         // Неразрушимое ядро
	Snow                         // Толкаемый снег
	Building                     // Блок здания
	Road                         // Дорожное покрытие
	Cloud                        // Декоративное облако
)

func init() {
	Register(Soil, Properties{Name: "soil", Destructible: true})
	Register(Rock, Properties{Name: "rock", Destructible: true})
	Register(Core, Properties{Name: "core", Ricochet: true})
	Register(Snow, Properties{Name: "snow", Destructible: true, Pushable: true})
	Register(Building, Properties{Name: "building", Destructible: true})
	Register(Road, Properties{Name: "road", Destructible: true})
	Register(Cloud, Properties{Name: "cloud", Decoration: true})
}

// String возвращает имя материала
func (m Material) String() string {
	if props, ok := Get(m); ok {
		return props.Name
	}
	return "unknown"
}
