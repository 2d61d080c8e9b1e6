// Package logger provides the process-wide structured logger. A single
// *Logger is constructed in main and injected into the factory, agents,
// the debate session, and the recorder; nothing looks a logger up from a
// global registry.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"FightBot/pkg/utils"
)

// Logger wraps zap.SugaredLogger. Messages pass through utils.SanitizeLog
// so credentials never reach the console or the log file.
type Logger struct {
	sugar    *zap.SugaredLogger
	filePath string
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger that writes to <storagePath>/fightbot.log.
func New(storagePath, level string) (*Logger, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, err
	}

	logPath := filepath.Join(storagePath, "fightbot.log")
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(logFile),
		parseLevel(level),
	)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{sugar: zl.Sugar(), filePath: logPath}, nil
}

// NewConsole creates a logger that writes to stderr. Used when no log
// directory is configured.
func NewConsole(level string) *Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stderr),
		parseLevel(level),
	)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{sugar: zl.Sugar()}
}

// NewNop returns a logger that discards everything. For tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Named returns a child logger with the given name appended. Agents use
// this so every line carries the speaker identity.
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name), filePath: l.filePath}
}

func (l *Logger) Debugf(format string, v ...any) {
	l.sugar.Debugf("%s", utils.SanitizeLog(fmt.Sprintf(format, v...)))
}

func (l *Logger) Infof(format string, v ...any) {
	l.sugar.Infof("%s", utils.SanitizeLog(fmt.Sprintf(format, v...)))
}

func (l *Logger) Warnf(format string, v ...any) {
	l.sugar.Warnf("%s", utils.SanitizeLog(fmt.Sprintf(format, v...)))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.sugar.Errorf("%s", utils.SanitizeLog(fmt.Sprintf(format, v...)))
}

// Path returns the log file location, or "" for console loggers.
func (l *Logger) Path() string { return l.filePath }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.sugar.Sync() }
