package spawn

import (
	"context"
	"sync/atomic"

	"github.com/annel0/voxel-tanks/internal/eventbus"
	"github.com/annel0/voxel-tanks/internal/world"
)

// KillCounter считает уничтоженных враждебных юнитов по событиям шины
// и переводит счёт в сложность директора.
type KillCounter struct {
	kills         atomic.Int64
	killsPerLevel int
	director      *Director
	sub           eventbus.Subscription
}

// DifficultyForKills уровень сложности для числа побед
func DifficultyForKills(kills, killsPerLevel int) int {
	if killsPerLevel <= 0 {
		return 0
	}
	return kills / killsPerLevel
}

// WatchKills подписывает счётчик на события уничтожения сущностей
func WatchKills(bus eventbus.EventBus, director *Director, killsPerLevel int) (*KillCounter, error) {
	kc := &KillCounter{killsPerLevel: killsPerLevel, director: director}
	sub, err := bus.Subscribe(context.Background(),
		eventbus.Filter{Types: []string{world.EventTypeEntityDestroyed.String()}},
		kc.handle)
	if err != nil {
		return nil, err
	}
	kc.sub = sub
	return kc, nil
}

func (kc *KillCounter) handle(_ context.Context, env *eventbus.Envelope) {
	ev, ok := env.Payload.(world.EntityDestroyedEvent)
	if !ok || ev.Kind != "hostile" || ev.Cause != "hit" {
		return
	}
	n := kc.kills.Add(1)
	kc.director.RaiseDifficulty(DifficultyForKills(int(n), kc.killsPerLevel))
}

// Kills число засчитанных побед
func (kc *KillCounter) Kills() int {
	return int(kc.kills.Load())
}

// Stop отписывает счётчик от шины
func (kc *KillCounter) Stop() {
	kc.sub.Unsubscribe()
}
