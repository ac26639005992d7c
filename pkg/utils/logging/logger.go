package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDir is where log files go when no directory is given
const DefaultDir = "logs"

// InitLogger initializes a zap logger that writes Info and above to the
// console and everything from Debug up as JSON to a file under dir.
// env prefixes the log file name.
func InitLogger(env, dir string) (*zap.Logger, error) {
	return newLogger(env, dir, os.Stdout, time.Now())
}

func newLogger(env, dir string, console io.Writer, now time.Time) (*zap.Logger, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if env == "" {
		env = "default"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFileName := LogFilePath(dir, env, now)
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(console), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", env))

	return logger, nil
}

// LogFilePath returns the log file for a run started at t
func LogFilePath(dir, env string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", env, t.Format("2006-01-02_15-04-05")))
}
