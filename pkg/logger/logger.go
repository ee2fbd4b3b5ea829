package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger — общий интерфейс логирования для всех слоёв приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	With(args ...any) Logger
}

// ZeroLogger реализует Logger поверх zerolog.
type ZeroLogger struct {
	log zerolog.Logger
}

// NewZeroLogger создаёт JSON-логгер в stdout. Уровень задаётся переменной LOG_LEVEL.
func NewZeroLogger() *ZeroLogger {
	return New(os.Stdout, parseLevel(os.Getenv("LOG_LEVEL")))
}

// New создаёт JSON-логгер в w с минимальным уровнем level.
func New(w io.Writer, level zerolog.Level) *ZeroLogger {
	return &ZeroLogger{
		log: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewDiscard возвращает логгер, который ничего не пишет.
func NewDiscard() *ZeroLogger {
	return &ZeroLogger{log: zerolog.Nop()}
}

func (l *ZeroLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZeroLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZeroLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

// Errorf пишет сообщение уровня error; err попадает в поле "error", nil допускается.
func (l *ZeroLogger) Errorf(err error, format string, args ...any) {
	ev := l.log.Error()
	if err != nil {
		ev = ev.Err(err)
	}

	ev.Msgf(format, args...)
}

// With возвращает логгер с дополнительными полями, заданными парами ключ-значение.
func (l *ZeroLogger) With(args ...any) Logger {
	return &ZeroLogger{log: l.log.With().Fields(args).Logger()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
