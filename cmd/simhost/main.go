package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/voxel-tanks/internal/config"
	"github.com/annel0/voxel-tanks/internal/eventbus"
	"github.com/annel0/voxel-tanks/internal/logging"
	"github.com/annel0/voxel-tanks/internal/observability"
	"github.com/annel0/voxel-tanks/internal/sim"
	"github.com/annel0/voxel-tanks/internal/spawn"
)

// killsPerLevel побед на один уровень сложности
const killsPerLevel = 5

func main() {
	configPath := flag.String("config", "", "путь к game.yaml (по умолчанию GAME_CONFIG или встроенные значения)")
	maxTicks := flag.Uint64("ticks", 0, "остановиться после N тиков (0: без ограничения)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.SetLogDir(cfg.Logging.Dir)
	if err := logging.InitDefaultLogger("simhost"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.SetDefaultLevel(logging.ParseLevel(cfg.Logging.Level))
	logging.GetLoggerManager().ApplyLevels(cfg.Logging.Components)
	defer func() {
		if err := logging.GetLoggerManager().CloseAll(); err != nil {
			log.Printf("Закрытие логов компонентов: %v", err)
		}
	}()

	logging.Info("🎮 Запуск симуляции voxel-tanks: seed=%d, tick=%d Гц", cfg.World.Seed, cfg.Sim.TickRate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTracing, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.Error("❌ Ошибка инициализации телеметрии: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logging.Warn("Остановка телеметрии: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	sampler, err := observability.NewProcessSampler(reg)
	if err != nil {
		logging.Warn("Метрики процесса недоступны: %v", err)
	}

	// === ШИНА СОБЫТИЙ ===
	bus := eventbus.NewMemoryBus(1024)
	defer bus.Close()
	busMetrics := eventbus.NewMetricsExporter(bus, reg)
	busMetrics.Start(time.Second)
	defer busMetrics.Stop()
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Логирование событий недоступно: %v", err)
	}

	// === СИМУЛЯЦИЯ ===
	director := spawn.NewDirector(cfg)
	kills, err := spawn.WatchKills(bus, director, killsPerLevel)
	if err != nil {
		logging.Error("❌ Ошибка подписки счётчика побед: %v", err)
		os.Exit(1)
	}
	defer kills.Stop()

	world := sim.New(cfg, sim.Options{Registerer: reg, Bus: bus, Spawner: director})

	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", metricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()

	run(ctx, world, sampler, cfg.Sim.TickRate, *maxTicks)

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Остановка HTTP сервера: %v", err)
	}
	logging.Info("👋 Симуляция остановлена: тиков %d, побед %d, сложность %d",
		world.TickCount(), kills.Kills(), director.Difficulty())
}

// run крутит фиксированный цикл тиков до отмены ctx или исчерпания лимита
func run(ctx context.Context, world *sim.World, sampler *observability.ProcessSampler, tickRate int, maxTicks uint64) {
	if tickRate <= 0 {
		tickRate = 60
	}
	dt := 1.0 / float64(tickRate)
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()
	report := time.NewTicker(10 * time.Second)
	defer report.Stop()

	pilot := &autopilot{}
	var total uint64
	for {
		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения")
			return
		case <-report.C:
			if sampler != nil {
				sampler.Sample()
				logging.Info("Аптайм %s, тик %d, сущностей %d, снарядов %d",
					sampler.Uptime(), world.TickCount(), len(world.Entities()), len(world.Projectiles()))
			}
		case <-ticker.C:
			world.TickContext(ctx, dt, pilot.Intent(world, dt))
			world.DrainDelta() // Рендера нет, изменения вокселей не нужны
			total++
			if world.GameOver() {
				logging.Info("💥 Танк уничтожен на тике %d, перезапуск мира", world.TickCount())
				world.Reset()
			}
			if maxTicks > 0 && total >= maxTicks {
				return
			}
		}
	}
}
