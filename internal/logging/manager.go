package logging

import (
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// LoggerManager держит логгеры компонентов симуляции ("world", "sim", "spawn", "events")
// и уровни, заданные для них конфигурацией.
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	levels  map[string]LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = NewLoggerManager()
	})
	return globalManager
}

// NewLoggerManager создаёт пустой менеджер
func NewLoggerManager() *LoggerManager {
	return &LoggerManager{
		loggers: make(map[string]*Logger),
		levels:  make(map[string]LogLevel),
	}
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении.
// Уровень компонента, заданный заранее через SetComponentLevel, применяется сразу.
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	logger, ok := lm.loggers[component]
	lm.mu.RUnlock()
	if ok {
		return logger, nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()
	if logger, ok := lm.loggers[component]; ok {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, errors.Wrapf(err, "логгер компонента %s", component)
	}
	if level, ok := lm.levels[component]; ok {
		logger.minConsoleLevel = level
		logger.minFileLevel = level
	}
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер или консольный логгер, если файл открыть не удалось
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		return newConsoleLogger(component, os.Stdout, defaultLogger.minConsoleLevel)
	}
	return logger
}

// SetComponentLevel задаёт уровень компонента для уже созданного и будущих логгеров
func (lm *LoggerManager) SetComponentLevel(component string, level LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.levels[component] = level
	if logger, ok := lm.loggers[component]; ok {
		logger.minConsoleLevel = level
		logger.minFileLevel = level
	}
}

// ApplyLevels разбирает карту "компонент: уровень" из конфигурации
func (lm *LoggerManager) ApplyLevels(levels map[string]string) {
	for component, level := range levels {
		lm.SetComponentLevel(component, ParseLevel(level))
	}
}

// Components возвращает имена созданных логгеров по алфавиту
func (lm *LoggerManager) Components() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	out := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		out = append(out, component)
	}
	sort.Strings(out)
	return out
}

// CloseAll закрывает файлы всех логгеров компонентов.
// Возвращает первую ошибку, но закрывает всё.
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var first error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "закрытие логгера %s", component)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return first
}

// GetComponentLogger логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

func GetWorldLogger() *Logger {
	return GetComponentLogger("world")
}

func GetSimLogger() *Logger {
	return GetComponentLogger("sim")
}

func GetSpawnLogger() *Logger {
	return GetComponentLogger("spawn")
}
