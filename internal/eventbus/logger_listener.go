package eventbus

import (
	"context"

	"github.com/annel0/voxel-tanks/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента "events".
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	log := logging.GetComponentLogger("events")
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		log.Debug("[EventBus] %s %s tick=%d src=%s prio=%d", ev.ID, ev.EventType, ev.Tick, ev.Source, ev.Priority)
	})
	if err != nil {
		return nil, err
	}
	log.Info("LoggingListener: подписка на все события активирована")
	return sub, nil
}
