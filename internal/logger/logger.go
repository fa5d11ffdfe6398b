package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the different logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARNING:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a leveled logger backed by zap. The zero value is not usable; use New.
type Logger struct {
	level LogLevel
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// Options controls how New builds the underlying zap core
type Options struct {
	Level  LogLevel
	Output io.Writer
	// JSON selects the production JSON encoder; otherwise a console encoder is used.
	JSON bool
}

// New creates a logger writing to opts.Output (stdout when nil)
func New(opts Options) *Logger {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), opts.Level.zapLevel())
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{
		level: opts.Level,
		base:  base,
		sugar: base.Sugar(),
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	base := zap.NewNop()
	return &Logger{level: ERROR, base: base, sugar: base.Sugar()}
}

// ParseLogLevel parses a string log level and returns the corresponding LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Level returns the configured level
func (l *Logger) Level() LogLevel {
	return l.level
}

// Zap exposes the underlying zap logger for middleware that needs it
func (l *Logger) Zap() *zap.Logger {
	// Callers of the raw logger log from their own frames.
	return l.base.WithOptions(zap.AddCallerSkip(-1))
}

// Named returns a child logger with the given name segment
func (l *Logger) Named(name string) *Logger {
	base := l.base.Named(name)
	return &Logger{level: l.level, base: base, sugar: base.Sugar()}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Fatal logs an error message and exits the program
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.base.Sync()
}

// IsDebugEnabled returns true if debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.level <= DEBUG
}
