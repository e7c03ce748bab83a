/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ssgreg/logf"
	"github.com/ssgreg/logftext"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CloseFunc flushes buffered entries and stops the background writer.
type CloseFunc logf.ChannelWriterCloseFunc

// LogFunc allows logging a message with a bound level.
// nolint: revive
type LogFunc = logf.LogFunc

// FieldLogger is an interface for loggers which writes logs in structured format.
type FieldLogger interface {
	With(...Field) FieldLogger

	Debug(string, ...Field)
	Info(string, ...Field)
	Warn(string, ...Field)
	Error(string, ...Field)

	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	AtLevel(Level, func(LogFunc))
	WithLevel(level Level) FieldLogger
}

var logfLevels = map[Level]logf.Level{
	LevelError: logf.LevelError,
	LevelWarn:  logf.LevelWarn,
	LevelInfo:  logf.LevelInfo,
	LevelDebug: logf.LevelDebug,
}

// LevelToLogf maps a Level to its logf counterpart. Unknown levels are treated as "info".
func LevelToLogf(level Level) logf.Level {
	if lvl, ok := logfLevels[level]; ok {
		return lvl
	}
	return logf.LevelInfo
}

// LevelFromLogf maps a logf level back to Level.
func LevelFromLogf(level logf.Level) Level {
	for lvl, logfLvl := range logfLevels {
		if logfLvl == level {
			return lvl
		}
	}
	return LevelInfo
}

// LogfAdapter adapts logf.Logger to FieldLogger interface.
type LogfAdapter struct {
	Logger *logf.Logger
}

var _ FieldLogger = (*LogfAdapter)(nil)

// NewDisabledLogger returns a new logger that logs nothing.
func NewDisabledLogger() FieldLogger {
	return &LogfAdapter{logf.NewDisabledLogger()}
}

// NewLogger returns a new logger writing to the output chosen in cfg.
// Returned CloseFunc must be called before the process exits, otherwise buffered entries may be lost.
func NewLogger(cfg *Config) (FieldLogger, CloseFunc) {
	var w io.Writer
	switch cfg.Output {
	case OutputFile:
		w = newRotatingFile(cfg.File)
	case OutputStderr:
		w = os.Stderr
	default:
		w = os.Stdout
	}
	return NewLoggerWithWriter(cfg, w)
}

// NewLoggerWithWriter works like NewLogger but ignores cfg.Output and writes everything to w.
func NewLoggerWithWriter(cfg *Config, w io.Writer) (FieldLogger, CloseFunc) {
	channel, closeFunc := logf.NewChannelWriter(logf.ChannelWriterConfig{
		Appender:          newAppender(cfg, w),
		EnableSyncOnError: true,
	})
	logger := logf.NewLogger(LevelToLogf(cfg.Level), channel).With(logf.Int("pid", os.Getpid()))
	if cfg.AddCaller {
		// Skip the adapter frame so the reported caller is the user's code.
		logger = logger.WithCaller().WithCallerSkip(1)
	}
	return &LogfAdapter{logger}, CloseFunc(closeFunc)
}

// With returns a new logger with the given additional fields.
func (l *LogfAdapter) With(fs ...Field) FieldLogger {
	return &LogfAdapter{l.Logger.With(fs...)}
}

// Debug logs message at "debug" level.
func (l *LogfAdapter) Debug(s string, fields ...Field) { l.Logger.Debug(s, fields...) }

// Info logs message at "info" level.
func (l *LogfAdapter) Info(s string, fields ...Field) { l.Logger.Info(s, fields...) }

// Warn logs message at "warn" level.
func (l *LogfAdapter) Warn(s string, fields ...Field) { l.Logger.Warn(s, fields...) }

// Error logs message at "error" level.
func (l *LogfAdapter) Error(s string, fields ...Field) { l.Logger.Error(s, fields...) }

// Debugf logs a formatted message at "debug" level.
func (l *LogfAdapter) Debugf(format string, args ...interface{}) { l.printf(LevelDebug, format, args) }

// Infof logs a formatted message at "info" level.
func (l *LogfAdapter) Infof(format string, args ...interface{}) { l.printf(LevelInfo, format, args) }

// Warnf logs a formatted message at "warn" level.
func (l *LogfAdapter) Warnf(format string, args ...interface{}) { l.printf(LevelWarn, format, args) }

// Errorf logs a formatted message at "error" level.
func (l *LogfAdapter) Errorf(format string, args ...interface{}) { l.printf(LevelError, format, args) }

// The message is formatted only when the level is enabled.
func (l *LogfAdapter) printf(level Level, format string, args []interface{}) {
	l.AtLevel(level, func(logFunc LogFunc) {
		logFunc(fmt.Sprintf(format, args...))
	})
}

// AtLevel calls the given fn if logging a message at the specified level
// is enabled, passing a LogFunc with the bound level.
func (l *LogfAdapter) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.Logger.AtLevel(LevelToLogf(level), fn)
}

// WithLevel returns a new logger with additional level check.
// Messages below both the given and the previously set level are dropped, so it only makes sense to raise the level.
func (l *LogfAdapter) WithLevel(level Level) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.WithLevel(LevelToLogf(level))}
}

func newRotatingFile(cfg FileOutputConfig) *lumberjack.Logger {
	const mb = 1024 * 1024
	return &lumberjack.Logger{
		Filename:   expandFilePath(cfg.Path, time.Now()),
		MaxSize:    int(cfg.Rotation.MaxSize / mb),
		MaxBackups: cfg.Rotation.MaxBackups,
		MaxAge:     cfg.Rotation.MaxAgeDays,
		Compress:   cfg.Rotation.Compress,
		LocalTime:  cfg.Rotation.LocalTimeInNames,
	}
}

func newAppender(cfg *Config, w io.Writer) logf.Appender {
	var errEncoder logf.ErrorEncoder
	if cfg.Error.NoVerbose || cfg.Error.VerboseSuffix != "" {
		errEncoder = logf.NewErrorEncoder(logf.ErrorEncoderConfig{
			NoVerboseField:     cfg.Error.NoVerbose,
			VerboseFieldSuffix: cfg.Error.VerboseSuffix,
		})
	}

	if cfg.Format == FormatText {
		noColor := cfg.NoColor
		return logftext.NewAppender(w, logftext.EncoderConfig{
			NoColor:     &noColor,
			EncodeTime:  logf.RFC3339NanoTimeEncoder,
			EncodeError: errEncoder,
		})
	}
	return logf.NewWriteAppender(w, logf.NewJSONEncoder(logf.JSONEncoderConfig{
		FieldKeyTime: "time",
		EncodeTime:   logf.RFC3339NanoTimeEncoder,
		EncodeError:  errEncoder,
	}))
}

// expandFilePath substitutes {{pid}} and {{starttime}} placeholders in the log file path.
func expandFilePath(path string, now time.Time) string {
	return strings.NewReplacer(
		"{{pid}}", strconv.Itoa(os.Getpid()),
		"{{starttime}}", now.Format("200601021504"),
	).Replace(path)
}
