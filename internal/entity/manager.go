package entity

import (
	"sort"

	"github.com/annel0/voxel-tanks/internal/physics"
)

// firstEntityID начальный ID, чтобы не пересекаться с малыми служебными значениями
const firstEntityID = 1000

// Manager хранит сущности и выдаёт идентификаторы.
// Обход выполняется в порядке возрастания ID, чтобы тик был детерминированным.
type Manager struct {
	entities     map[uint64]*Entity
	order        []uint64
	nextEntityID uint64
	playerID     uint64
}

// NewManager создаёт пустой менеджер сущностей
func NewManager() *Manager {
	return &Manager{
		entities:     make(map[uint64]*Entity),
		nextEntityID: firstEntityID,
	}
}

// NextID выдаёт новый уникальный идентификатор
func (m *Manager) NextID() uint64 {
	id := m.nextEntityID
	m.nextEntityID++
	return id
}

// Add регистрирует сущность
func (m *Manager) Add(e *Entity) {
	if _, exists := m.entities[e.ID]; !exists {
		m.order = append(m.order, e.ID)
		sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	}
	m.entities[e.ID] = e
	if e.Kind == KindPlayer {
		m.playerID = e.ID
	}
}

// Remove удаляет сущность и сообщает, была ли она зарегистрирована
func (m *Manager) Remove(id uint64) bool {
	if _, exists := m.entities[id]; !exists {
		return false
	}
	delete(m.entities, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if id == m.playerID {
		m.playerID = 0
	}
	return true
}

// Get возвращает сущность по ID
func (m *Manager) Get(id uint64) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// Player возвращает танк игрока
func (m *Manager) Player() (*Entity, bool) {
	if m.playerID == 0 {
		return nil, false
	}
	return m.Get(m.playerID)
}

// Len возвращает число сущностей
func (m *Manager) Len() int {
	return len(m.entities)
}

// All возвращает сущности в порядке ID
func (m *Manager) All() []*Entity {
	out := make([]*Entity, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entities[id])
	}
	return out
}

// OfKind возвращает сущности варианта kind в порядке ID
func (m *Manager) OfKind(kind Kind) []*Entity {
	var out []*Entity
	for _, id := range m.order {
		if e := m.entities[id]; e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count возвращает число сущностей варианта kind
func (m *Manager) Count(kind Kind) int {
	n := 0
	for _, e := range m.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Obstacles возвращает все сущности как препятствия для разделения
func (m *Manager) Obstacles() []physics.Obstacle {
	out := make([]physics.Obstacle, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entities[id].Obstacle())
	}
	return out
}

// Clear удаляет все сущности; счётчик ID не сбрасывается
func (m *Manager) Clear() {
	m.entities = make(map[uint64]*Entity)
	m.order = nil
	m.playerID = 0
}
