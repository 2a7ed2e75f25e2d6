package observability

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessSampler снимает показатели процесса хоста и публикует их как gauges
type ProcessSampler struct {
	startTime time.Time
	proc      *process.Process

	cpuPercent prometheus.Gauge
	rssMB      prometheus.Gauge
	goroutines prometheus.Gauge
	uptime     prometheus.Gauge
}

// NewProcessSampler создаёт сэмплер текущего процесса и регистрирует метрики в reg
func NewProcessSampler(reg prometheus.Registerer) (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(err, "открытие процесса")
	}

	ps := &ProcessSampler{
		startTime: time.Now(),
		proc:      proc,
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simhost",
			Name:      "process_cpu_percent",
			Help:      "Загрузка CPU процессом, проценты.",
		}),
		rssMB: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simhost",
			Name:      "process_rss_megabytes",
			Help:      "Резидентная память процесса, МБ.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simhost",
			Name:      "goroutines",
			Help:      "Число горутин.",
		}),
		uptime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simhost",
			Name:      "uptime_seconds",
			Help:      "Время работы хоста.",
		}),
	}
	reg.MustRegister(ps.cpuPercent, ps.rssMB, ps.goroutines, ps.uptime)
	return ps, nil
}

// Sample обновляет gauges. Ошибки gopsutil не фатальны: соответствующий показатель пропускается.
func (ps *ProcessSampler) Sample() {
	if cpu, err := ps.proc.CPUPercent(); err == nil {
		ps.cpuPercent.Set(cpu)
	}
	if mem, err := ps.proc.MemoryInfo(); err == nil {
		ps.rssMB.Set(float64(mem.RSS) / 1024 / 1024)
	}
	ps.goroutines.Set(float64(runtime.NumGoroutine()))
	ps.uptime.Set(time.Since(ps.startTime).Seconds())
}

// Uptime возвращает время работы в читаемом виде
func (ps *ProcessSampler) Uptime() string {
	return FormatUptime(time.Since(ps.startTime))
}

// FormatUptime форматирует длительность как "1д 2ч 3м 4с", опуская старшие нулевые части
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}
