package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из конфигурации, неизвестные значения дают INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TRACE
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case TRACE:
		return zerolog.TraceLevel
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger логгер компонента: консоль в человекочитаемом виде, файл в JSON
type Logger struct {
	component       string
	console         zerolog.Logger
	file            *zerolog.Logger
	fileHandle      *os.File
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

var (
	// Каталог файловых логов; пустая строка отключает запись в файл
	logDir = ""

	defaultLogger = newConsoleLogger("app", os.Stdout, INFO)
)

func init() {
	// Фильтрация уровней выполняется самим Logger
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// SetLogDir задает каталог для файловых логов новых компонентов
func SetLogDir(dir string) {
	logDir = dir
}

func newConsoleLogger(component string, out io.Writer, level LogLevel) *Logger {
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return &Logger{
		component:       component,
		console:         zerolog.New(cw).With().Timestamp().Str("component", component).Logger(),
		minConsoleLevel: level,
		minFileLevel:    DEBUG,
	}
}

// NewLoggerWithWriter создает логгер без файла, пишущий в out
func NewLoggerWithWriter(component string, out io.Writer, level LogLevel) *Logger {
	return newConsoleLogger(component, out, level)
}

// NewLogger создает логгер компонента. При заданном SetLogDir дополнительно открывает файл
func NewLogger(component string) (*Logger, error) {
	logger := newConsoleLogger(component, os.Stdout, defaultLogger.minConsoleLevel)
	if logDir == "" {
		return logger, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(logDir, fmt.Sprintf("%s_%s.log", component, timestamp))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	fl := zerolog.New(file).With().Timestamp().Str("component", component).Logger()
	logger.file = &fl
	logger.fileHandle = file
	return logger, nil
}

// InitDefaultLogger настраивает глобальный логгер приложения
func InitDefaultLogger(component string) error {
	logger, err := NewLogger(component)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

// SetDefaultLevel меняет порог консольного вывода глобального логгера
func SetDefaultLevel(level LogLevel) {
	defaultLogger.minConsoleLevel = level
}

// CloseDefaultLogger закрывает файл глобального логгера
func CloseDefaultLogger() error {
	return defaultLogger.Close()
}

// Close закрывает файл логгера, если он открыт
func (l *Logger) Close() error {
	if l.fileHandle == nil {
		return nil
	}
	err := l.fileHandle.Close()
	l.fileHandle = nil
	l.file = nil
	return err
}

// Component возвращает имя компонента
func (l *Logger) Component() string {
	return l.component
}

func (l *Logger) emit(level LogLevel, msg string, fields map[string]any) {
	if level >= l.minConsoleLevel {
		e := l.console.WithLevel(level.zerolog())
		if fields != nil {
			e = e.Fields(fields)
		}
		e.Msg(msg)
	}
	if l.file != nil && level >= l.minFileLevel {
		e := l.file.WithLevel(level.zerolog())
		if fields != nil {
			e = e.Fields(fields)
		}
		e.Msg(msg)
	}
}

// Enabled сообщает, будет ли записан уровень хотя бы в один вывод
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.minConsoleLevel || (l.file != nil && level >= l.minFileLevel)
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.emit(level, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Trace(format string, args ...interface{}) { l.logf(TRACE, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logf(ERROR, format, args...) }

// With пишет сообщение со структурированными полями (пары ключ-значение)
func (l *Logger) With(level LogLevel, msg string, keysAndValues ...any) {
	if !l.Enabled(level) {
		return
	}
	l.emit(level, msg, toFields(keysAndValues))
}

// toFields преобразует пары ключ-значение в карту для zerolog
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

// Trace логирует сообщение уровня TRACE глобальным логгером
func Trace(format string, args ...interface{}) {
	defaultLogger.Trace(format, args...)
}

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}
