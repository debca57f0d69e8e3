// Package logger configures the structured logger used across the proxy.
//
// It wraps logrus with a formatter that renders "[time] [LEVL] (file:func:line)
// message", matching the shape every other component's log lines are
// expected to have.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	Logger      *logrus.Logger
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// Config controls where logs go and at what level.
type Config struct {
	ErrorLogPath string
	InfoLogPath  string
	LogLevel     string
}

type formatter struct{}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("15:04:05 MST 2006/01/02")

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	msg := fmt.Sprintf("[%s] [%s] (%s) %s\n", timestamp, level, caller(), entry.Message)
	return []byte(msg), nil
}

// caller walks the stack past logrus and this package to find the real
// call site, so log lines point at the code that logged, not at logrus.
func caller() string {
	for i := 2; i < 20; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(file, "/logrus/") ||
			strings.Contains(file, "logger/logger.go") ||
			strings.Contains(file, "sirupsen") ||
			strings.Contains(file, "/entry.go") {
			continue
		}
		fn := runtime.FuncForPC(pc)
		return fmt.Sprintf("%s:%s:%d", filepath.Base(file), fn.Name(), line)
	}
	return "unknown:unknown:0"
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// Init sets up Logger/InfoLogger/ErrorLogger from cfg. Log files are
// created (and their directory made) on demand; if that fails logging
// falls back to stdout/stderr rather than aborting startup.
func Init(cfg Config) error {
	f := &formatter{}

	Logger = logrus.New()
	Logger.SetFormatter(f)
	Logger.SetLevel(parseLevel(cfg.LogLevel))

	InfoLogger = logrus.New()
	InfoLogger.SetFormatter(f)
	InfoLogger.SetLevel(parseLevel(cfg.LogLevel))

	ErrorLogger = logrus.New()
	ErrorLogger.SetFormatter(f)
	ErrorLogger.SetLevel(parseLevel(cfg.LogLevel))

	if cfg.InfoLogPath != "" {
		if fh, err := openLogFile(cfg.InfoLogPath); err == nil {
			InfoLogger.SetOutput(io.MultiWriter(os.Stdout, fh))
		} else {
			InfoLogger.SetOutput(os.Stdout)
			InfoLogger.Warnf("failed to open info log file %s, falling back to stdout: %v", cfg.InfoLogPath, err)
		}
	} else {
		InfoLogger.SetOutput(os.Stdout)
	}

	if cfg.ErrorLogPath != "" {
		if fh, err := openLogFile(cfg.ErrorLogPath); err == nil {
			ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, fh))
		} else {
			ErrorLogger.SetOutput(os.Stderr)
			ErrorLogger.Warnf("failed to open error log file %s, falling back to stderr: %v", cfg.ErrorLogPath, err)
		}
	} else {
		ErrorLogger.SetOutput(os.Stderr)
	}

	Logger.SetOutput(InfoLogger.Out)
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

func Info(args ...interface{})                 { if InfoLogger != nil { InfoLogger.Info(args...) } }
func Infof(format string, args ...interface{}) { if InfoLogger != nil { InfoLogger.Infof(format, args...) } }
func Debug(args ...interface{})                 { if Logger != nil { Logger.Debug(args...) } }
func Debugf(format string, args ...interface{}) { if Logger != nil { Logger.Debugf(format, args...) } }
func Warn(args ...interface{})                  { if Logger != nil { Logger.Warn(args...) } }
func Warnf(format string, args ...interface{})  { if Logger != nil { Logger.Warnf(format, args...) } }
func Error(args ...interface{})                 { if ErrorLogger != nil { ErrorLogger.Error(args...) } }
func Errorf(format string, args ...interface{}) { if ErrorLogger != nil { ErrorLogger.Errorf(format, args...) } }
func Fatal(args ...interface{})                 { if ErrorLogger != nil { ErrorLogger.Fatal(args...) } }
func Fatalf(format string, args ...interface{}) { if ErrorLogger != nil { ErrorLogger.Fatalf(format, args...) } }
