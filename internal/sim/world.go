// Package sim собирает индекс вокселей, стример чанков, сущности и снаряды
// в один агрегат, который продвигается тиками.
package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-tanks/internal/combat"
	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/entity"
	"github.com/annel0/voxel-tanks/internal/eventbus"
	"github.com/annel0/voxel-tanks/internal/logging"
	"github.com/annel0/voxel-tanks/internal/physics"
	"github.com/annel0/voxel-tanks/internal/vec"
	"github.com/annel0/voxel-tanks/internal/world"
)

// PlayerIntent намерение игрока на тик
type PlayerIntent struct {
	Turn     float64 // [-1, 1]
	Throttle float64 // [-1, 1]
	Fire     bool
}

// Spawner размещает юнитов в только что загруженных чанках
type Spawner interface {
	ChunksLoaded(w *World, chunks []world.ChunkData)
}

// Options необязательные зависимости мира
type Options struct {
	Registerer prometheus.Registerer // nil: метрики не собираются
	Bus        eventbus.EventBus     // nil: события только возвращаются из Tick
	Spawner    Spawner
}

// World агрегат симуляции. Все операции выполняются в одном потоке тика.
type World struct {
	cfg  *config.Config
	grid world.Grid

	index      *world.Index
	generator  *world.Generator
	streamer   *world.Streamer
	mutator    *world.Mutator
	integrator *physics.Integrator
	combat     *combat.Simulator
	entities   *entity.Manager

	projectiles      []*combat.Projectile
	nextProjectileID uint64

	playerParams   physics.Params
	hostileParams  physics.Params
	civilianParams physics.Params
	aiParams       entity.AIParams

	now      float64
	tick     uint64
	paused   bool
	gameOver bool
	kills    int
	pending  []world.Event // События вне тика, выдаются следующим Tick

	spawner Spawner
	bus     eventbus.EventBus
	metrics *Metrics
	tracer  trace.Tracer
	logger  *logging.Logger
}

// New создаёт мир и сразу выполняет Reset
func New(cfg *config.Config, opts Options) *World {
	grid := world.Grid{
		VoxelSize:    cfg.World.VoxelSize,
		ChunkSize:    cfg.World.ChunkSize,
		HeightLevels: cfg.World.HeightLevels,
	}
	index := world.NewIndex(grid)
	gen := world.NewGenerator(grid, cfg.World)
	mutator := world.NewMutator(index)

	m := cfg.Motion
	w := &World{
		cfg:            cfg,
		grid:           grid,
		index:          index,
		generator:      gen,
		streamer:       world.NewStreamer(index, gen, cfg.World.DrawDistance),
		mutator:        mutator,
		integrator:     physics.NewIntegrator(index, mutator),
		combat:         combat.NewSimulator(index, mutator, cfg.Combat),
		entities:       entity.NewManager(),
		playerParams:   physics.NewParams(m, m.TankSpeed, true, true),
		hostileParams:  physics.NewParams(m, m.HostileSpeed, false, false),
		civilianParams: physics.NewParams(m, m.CivilianSpeed, false, false),
		aiParams:       entity.NewAIParams(cfg),
		spawner:        opts.Spawner,
		bus:            opts.Bus,
		tracer:         otel.Tracer("voxel-tanks/sim"),
		logger:         logging.GetSimLogger(),
	}
	if opts.Registerer != nil {
		w.metrics = NewMetrics(opts.Registerer)
	}
	w.Reset()
	return w
}

// Reset заново создаёт индекс, сущности и снаряды; игрок появляется в начале координат
func (w *World) Reset() {
	w.index.Clear()
	w.streamer.Reset()
	w.entities.Clear()
	w.projectiles = nil
	w.pending = nil
	w.now = 0
	w.tick = 0
	w.kills = 0
	w.paused = false
	w.gameOver = false

	player := entity.New(w.entities.NextID(), entity.KindPlayer, mgl64.Vec3{}, 0, w.footprint())
	player.Health = w.cfg.Combat.MaxHealth
	w.entities.Add(player)

	w.stream(player.Position)
	w.logger.Info("Мир сброшен: seed=%d, загружено чанков %d", w.generator.Seed(), len(w.index.LoadedChunks()))
}

func (w *World) footprint() physics.Footprint {
	return physics.TankFootprint(w.cfg.Motion.FootprintRadius)
}

// SetPaused включает или снимает паузу
func (w *World) SetPaused(paused bool) {
	w.paused = paused
}

// Paused сообщает, стоит ли мир на паузе
func (w *World) Paused() bool {
	return w.paused
}

// GameOver сообщает, уничтожен ли игрок
func (w *World) GameOver() bool {
	return w.gameOver
}

// Now симуляционное время в секундах
func (w *World) Now() float64 {
	return w.now
}

// TickCount число выполненных тиков
func (w *World) TickCount() uint64 {
	return w.tick
}

// Kills число враждебных юнитов, уничтоженных игроком
func (w *World) Kills() int {
	return w.kills
}

// Config конфигурация мира
func (w *World) Config() *config.Config {
	return w.cfg
}

// Grid геометрия сетки
func (w *World) Grid() world.Grid {
	return w.grid
}

// Index индекс вокселей только для чтения рендером
func (w *World) Index() *world.Index {
	return w.index
}

// DrainDelta возвращает и очищает список изменённых вокселей
func (w *World) DrainDelta() []world.VoxelDelta {
	return w.index.DrainDelta()
}

// Entities возвращает сущности в порядке ID
func (w *World) Entities() []*entity.Entity {
	return w.entities.All()
}

// Entity возвращает сущность по ID
func (w *World) Entity(id uint64) (*entity.Entity, bool) {
	return w.entities.Get(id)
}

// Player возвращает танк игрока
func (w *World) Player() (*entity.Entity, bool) {
	return w.entities.Player()
}

// Projectiles возвращает снаряды в полёте
func (w *World) Projectiles() []*combat.Projectile {
	return w.projectiles
}

// InsertBuilding ставит постройку; событие VoxelInserted выдаётся следующим тиком
func (w *World) InsertBuilding(origin vec.Vec3, width, depth, height int) (int, error) {
	n, err := w.mutator.InsertBuilding(origin, width, depth, height)
	if err != nil {
		return 0, err
	}
	w.pending = append(w.pending, world.VoxelInsertedEvent{Origin: origin, Count: n})
	return n, nil
}

// stream обновляет окно чанков, передаёт новые чанки спавнеру и снимает юнитов в выгруженных
func (w *World) stream(anchor mgl64.Vec3) {
	res := w.streamer.Update(anchor)
	if !res.Changed {
		return
	}
	if len(res.Evicted) > 0 {
		w.despawnEvicted(res.Evicted)
	}
	if w.spawner != nil && len(res.Loaded) > 0 {
		w.spawner.ChunksLoaded(w, res.Loaded)
	}
}

// despawnEvicted молча удаляет не-игроков, стоящих в выгруженных чанках
func (w *World) despawnEvicted(evicted []vec.Vec2) {
	gone := make(map[vec.Vec2]struct{}, len(evicted))
	for _, cc := range evicted {
		gone[cc] = struct{}{}
	}
	for _, e := range w.entities.All() {
		if e.Kind == entity.KindPlayer {
			continue
		}
		if _, ok := gone[w.grid.ChunkOf(w.grid.ColumnOf(e.Position.X(), e.Position.Z()))]; ok {
			w.entities.Remove(e.ID)
			w.logger.Trace("Сущность %d (%s) снята при выгрузке чанка", e.ID, e.Kind)
		}
	}
}
