package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world/block"
)

// EventType определяет тип события симуляции
type EventType uint8

const (
	EventTypeVoxelDestroyed     EventType = iota // Воксель разрушен снарядом
	EventTypeVoxelPushed                         // Воксель сдвинут корпусом
	EventTypeVoxelInserted                       // Постройка вставлена в мир
	EventTypeEntityLanded                        // Сущность приземлилась после падения
	EventTypeEntityDestroyed                     // Сущность уничтожена
	EventTypeProjectileRicochet                  // Рикошет снаряда
	EventTypeShotFired                           // Выстрел
	EventTypeGameOver                            // Игрок уничтожен
)

var eventTypeNames = map[EventType]string{
	EventTypeVoxelDestroyed:     "voxel_destroyed",
	EventTypeVoxelPushed:        "voxel_pushed",
	EventTypeVoxelInserted:      "voxel_inserted",
	EventTypeEntityLanded:       "entity_landed",
	EventTypeEntityDestroyed:    "entity_destroyed",
	EventTypeProjectileRicochet: "projectile_ricochet",
	EventTypeShotFired:          "shot_fired",
	EventTypeGameOver:           "game_over",
}

// String возвращает имя типа события
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event представляет собой интерфейс для всех событий
type Event interface {
	GetType() EventType
}

// VoxelDestroyedEvent воксель удалён попаданием
type VoxelDestroyedEvent struct {
	Coord    vec.Vec3
	Material block.Material
}

func (e VoxelDestroyedEvent) GetType() EventType { return EventTypeVoxelDestroyed }

// VoxelPushedEvent воксель сдвинут из From в To
type VoxelPushedEvent struct {
	From     vec.Vec3
	To       vec.Vec3
	Material block.Material
}

func (e VoxelPushedEvent) GetType() EventType { return EventTypeVoxelPushed }

// VoxelInsertedEvent постройка добавлена в мир
type VoxelInsertedEvent struct {
	Origin vec.Vec3
	Count  int
}

func (e VoxelInsertedEvent) GetType() EventType { return EventTypeVoxelInserted }

// EntityLandedEvent приземление; Severity равна модулю вертикальной скорости
type EntityLandedEvent struct {
	EntityID uint64
	Position mgl64.Vec3
	Severity float64
}

func (e EntityLandedEvent) GetType() EventType { return EventTypeEntityLanded }

// EntityDestroyedEvent сущность уничтожена
type EntityDestroyedEvent struct {
	EntityID uint64
	Kind     string
	Position mgl64.Vec3
	Cause    string // "hit" или "fall"
}

func (e EntityDestroyedEvent) GetType() EventType { return EventTypeEntityDestroyed }

// ProjectileRicochetEvent рикошет без изменения мира
type ProjectileRicochetEvent struct {
	Position mgl64.Vec3
	Incoming mgl64.Vec3
}

func (e ProjectileRicochetEvent) GetType() EventType { return EventTypeProjectileRicochet }

// ShotFiredEvent выстрел сущности
type ShotFiredEvent struct {
	EntityID  uint64
	Muzzle    mgl64.Vec3
	Direction mgl64.Vec3
}

func (e ShotFiredEvent) GetType() EventType { return EventTypeShotFired }

// GameOverEvent игрок уничтожен, цикл остановлен до Reset
type GameOverEvent struct {
	Tick uint64
}

func (e GameOverEvent) GetType() EventType { return EventTypeGameOver }
