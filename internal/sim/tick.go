package sim

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-tanks/internal/combat"
	"github.com/annel0/voxel-tanks/internal/entity"
	"github.com/annel0/voxel-tanks/internal/eventbus"
	"github.com/annel0/voxel-tanks/internal/physics"
	"github.com/annel0/voxel-tanks/internal/world"
)

// Смещения дула относительно позиции корпуса
const (
	turretHeight       = 3.25
	playerBarrelReach  = 5.0
	hostileBarrelReach = 2.5
)

// Причины уничтожения сущности
const (
	causeHit  = "hit"
	causeFall = "fall"
)

// Tick выполняет один шаг симуляции и возвращает события тика
func (w *World) Tick(dt float64, intent PlayerIntent) []world.Event {
	return w.TickContext(context.Background(), dt, intent)
}

// TickContext как Tick, но со span трассировки в ctx.
// Порядок: стриминг, игрок, враждебные юниты, мирные машины, снаряды, итоги, метрики, публикация.
func (w *World) TickContext(ctx context.Context, dt float64, intent PlayerIntent) []world.Event {
	if w.paused || w.gameOver || dt <= 0 {
		return nil
	}
	if dt > w.cfg.Sim.MaxTickDelta {
		dt = w.cfg.Sim.MaxTickDelta
	}

	ctx, span := w.tracer.Start(ctx, "sim.Tick")
	defer span.End()
	started := time.Now()

	w.now += dt
	w.tick++
	events := w.pending
	w.pending = nil

	if player, ok := w.entities.Player(); ok {
		w.stream(player.Position)
		events = w.stepPlayer(player, intent, dt, events)
	}
	events = w.stepHostiles(dt, events)
	events = w.stepCivilians(dt, events)
	events = w.checkFallOut(events)
	events = w.stepProjectiles(dt, events)

	if player, ok := w.entities.Player(); ok && !player.Alive() {
		w.gameOver = true
		events = append(events, world.GameOverEvent{Tick: w.tick})
		w.logger.Info("Игра окончена на тике %d, уничтожено врагов: %d", w.tick, w.kills)
	}

	span.SetAttributes(
		attribute.Int64("sim.tick", int64(w.tick)),
		attribute.Int("sim.events", len(events)),
		attribute.Int("sim.entities", w.entities.Len()),
	)
	if w.metrics != nil {
		w.metrics.observe(w, time.Since(started).Seconds(), events)
	}
	w.publish(ctx, span, events)
	return events
}

// publish отправляет события в шину. Отказ по одному событию не мешает остальным;
// перебор прерывается только закрытой шиной.
func (w *World) publish(ctx context.Context, span trace.Span, events []world.Event) {
	if w.bus == nil {
		return
	}
	for _, ev := range events {
		err := w.bus.Publish(ctx, eventbus.NewEnvelope("sim", w.tick, ev))
		if err == nil {
			continue
		}
		span.RecordError(err)
		if errors.Is(err, eventbus.ErrClosed) {
			w.logger.Warn("Шина событий закрыта, события тика %d не отправлены", w.tick)
			return
		}
		w.logger.Warn("Публикация события %s: %v", ev.GetType(), err)
	}
}

// move продвигает сущность интегратором и переводит итог шага в события
func (w *World) move(e *entity.Entity, params physics.Params, in physics.Intent, dt float64, events []world.Event) []world.Event {
	res := w.integrator.Step(&e.Body, e.Footprint, params, in, dt, e.ID, w.entities.Obstacles())
	for _, p := range res.Pushes {
		v, _ := w.index.Get(p.To)
		events = append(events, world.VoxelPushedEvent{From: p.From, To: p.To, Material: v.Material})
	}
	if res.Landed {
		if e.Hostile != nil {
			e.Hostile.LandedAt = w.now
		}
		events = append(events, world.EntityLandedEvent{EntityID: e.ID, Position: e.Position, Severity: res.Severity})
	}
	return events
}

func (w *World) stepPlayer(p *entity.Entity, intent PlayerIntent, dt float64, events []world.Event) []world.Event {
	p.UpdateLock(w.entities.OfKind(entity.KindHostile), w.cfg.Combat.LockRange, w.cfg.Combat.LockAngle)

	in := physics.Intent{Turn: intent.Turn, Throttle: intent.Throttle}
	events = w.move(p, w.playerParams, in, dt, events)

	if intent.Fire && p.Combat.CanFire(w.now, w.cfg.Combat.FireCooldown) {
		dir := physics.Forward(p.Yaw)
		muzzle := p.Position.Add(mgl64.Vec3{0, turretHeight, 0}).Add(dir.Mul(playerBarrelReach))
		events = w.fire(p, combat.FactionPlayer, muzzle, dir, events)
		p.Recoil = p.Recoil.Sub(dir.Mul(w.cfg.Motion.RecoilImpulse))
	}
	return events
}

func (w *World) stepHostiles(dt float64, events []world.Event) []world.Event {
	player, hasPlayer := w.entities.Player()
	probe := w.integrator.Probe()
	for _, e := range w.entities.OfKind(entity.KindHostile) {
		ctx := &entity.Context{
			Now:    w.now,
			Dt:     dt,
			Params: w.aiParams,
			Probe:  probe,
		}
		if hasPlayer && player.Alive() {
			ctx.Target = player.Position
			ctx.HasTarget = true
		}
		d := e.Think(ctx)
		events = w.move(e, w.hostileParams, d.Intent, dt, events)

		if d.Fire {
			dir := physics.Forward(e.Yaw)
			muzzle := e.Position.Add(mgl64.Vec3{0, turretHeight, 0}).Add(dir.Mul(hostileBarrelReach))
			events = w.fire(e, combat.FactionHostile, muzzle, dir, events)
		}
	}
	return events
}

func (w *World) stepCivilians(dt float64, events []world.Event) []world.Event {
	probe := w.integrator.Probe()
	for _, e := range w.entities.OfKind(entity.KindCivilian) {
		ctx := &entity.Context{Now: w.now, Dt: dt, Params: w.aiParams, Probe: probe}
		d := e.Wander(ctx)
		events = w.move(e, w.civilianParams, d.Intent, dt, events)
	}
	return events
}

// fire выпускает снаряд и отмечает выстрел
func (w *World) fire(e *entity.Entity, faction combat.Faction, muzzle, dir mgl64.Vec3, events []world.Event) []world.Event {
	w.nextProjectileID++
	p := combat.NewProjectile(w.nextProjectileID, e.ID, faction, muzzle, dir, w.cfg.Combat.ProjectileSpeed)
	w.projectiles = append(w.projectiles, p)
	e.Combat.RecordShot(w.now)
	return append(events, world.ShotFiredEvent{EntityID: e.ID, Muzzle: muzzle, Direction: dir})
}

// checkFallOut уничтожает сущности, упавшие ниже FallOutDepth
func (w *World) checkFallOut(events []world.Event) []world.Event {
	for _, e := range w.entities.All() {
		if e.Position.Y() >= w.cfg.Motion.FallOutDepth {
			continue
		}
		events = w.destroy(e, causeFall, events)
	}
	return events
}

// destroy уничтожает сущность: игрок теряет всё здоровье и остаётся для рендера, прочие удаляются
func (w *World) destroy(e *entity.Entity, cause string, events []world.Event) []world.Event {
	if e.Kind == entity.KindPlayer {
		if !e.Alive() {
			return events
		}
		e.Health = 0
	} else {
		w.entities.Remove(e.ID)
	}
	return append(events, world.EntityDestroyedEvent{
		EntityID: e.ID,
		Kind:     e.Kind.String(),
		Position: e.Position,
		Cause:    cause,
	})
}

// targets цели для проверки попаданий
func (w *World) targets() []combat.Target {
	all := w.entities.All()
	out := make([]combat.Target, 0, len(all))
	for _, e := range all {
		if !e.Alive() {
			continue
		}
		out = append(out, combat.Target{ID: e.ID, Faction: factionOf(e.Kind), Position: e.Position})
	}
	return out
}

func factionOf(k entity.Kind) combat.Faction {
	switch k {
	case entity.KindPlayer:
		return combat.FactionPlayer
	case entity.KindHostile:
		return combat.FactionHostile
	default:
		return combat.FactionNeutral
	}
}

// stepProjectiles продвигает снаряды и применяет итоги
func (w *World) stepProjectiles(dt float64, events []world.Event) []world.Event {
	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		out := w.combat.Step(p, dt, w.targets())

		switch out.Kind {
		case combat.Ricochet:
			events = append(events, world.ProjectileRicochetEvent{Position: out.Position, Incoming: p.Velocity})
		case combat.Destroyed:
			events = append(events, world.VoxelDestroyedEvent{Coord: out.Coord, Material: out.Material})
			w.alertNear(w.grid.Center(out.Coord))
		case combat.HitEntity:
			events = w.applyHit(p, out.TargetID, events)
		case combat.InFlight:
			for _, id := range out.NearMiss {
				if e, ok := w.entities.Get(id); ok && e.Hostile != nil {
					e.Hostile.Alert(w.now, w.cfg.AI.AlertDuration)
				}
			}
		}

		if !out.Terminal() {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(w.projectiles); i++ {
		w.projectiles[i] = nil
	}
	w.projectiles = live
	return events
}

// applyHit наносит урон игроку или уничтожает враждебный юнит либо мирную машину.
// Убийством считается только уничтоженный игроком враждебный юнит.
func (w *World) applyHit(p *combat.Projectile, targetID uint64, events []world.Event) []world.Event {
	target, ok := w.entities.Get(targetID)
	if !ok {
		return events
	}
	if target.Kind == entity.KindPlayer {
		if target.Damage(w.cfg.Combat.HostileDamage) {
			events = w.destroyKilled(target, events)
		}
		return events
	}

	events = w.destroy(target, causeHit, events)
	if p.Faction == combat.FactionPlayer && target.Kind == entity.KindHostile {
		w.kills++
		if w.metrics != nil {
			w.metrics.kills.Inc()
		}
	}
	return events
}

// destroyKilled событие гибели сущности, здоровье которой уже обнулено
func (w *World) destroyKilled(e *entity.Entity, events []world.Event) []world.Event {
	return append(events, world.EntityDestroyedEvent{
		EntityID: e.ID,
		Kind:     e.Kind.String(),
		Position: e.Position,
		Cause:    causeHit,
	})
}

// alertNear поднимает тревогу у враждебных юнитов в радиусе от точки разрушения
func (w *World) alertNear(pos mgl64.Vec3) {
	for _, e := range w.entities.OfKind(entity.KindHostile) {
		if e.HorizontalDistance(pos) <= w.cfg.AI.AlertRadius {
			e.Hostile.Alert(w.now, w.cfg.AI.AlertDuration)
		}
	}
}
