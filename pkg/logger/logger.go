// Package logger содержит настройку логгера.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options представляет параметры логгера
type Options struct {
	Level  string
	Format string
	// FilePath - файл логов; пустой путь выводится из DataDir
	FilePath string
	DataDir  string
	// NoFile отключает запись в файл (например, для CLI)
	NoFile bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New создает новый логгер с выводом в stdout и ротируемый файл
func New(opts Options) *zap.Logger {
	level := ParseLevel(opts.Level)

	// Настраиваем кодировщик
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if opts.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if !opts.NoFile {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   LogPath(opts.FilePath, opts.DataDir),
				MaxSize:    withDefault(opts.MaxSizeMB, 100), // MB
				MaxBackups: withDefault(opts.MaxBackups, 3),
				MaxAge:     withDefault(opts.MaxAgeDays, 28), // days
				Compress:   true,
			}),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel переводит строку в уровень логирования, по умолчанию info
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// LogPath возвращает путь к файлу логов
func LogPath(filePath, dataDir string) string {
	if filePath != "" {
		return filePath
	}

	if dataDir != "" {
		// Создаем директорию если она не существует
		if err := os.MkdirAll(dataDir, 0o755); err == nil {
			return filepath.Join(dataDir, "spordle.log")
		}
	}

	// По умолчанию используем локальную папку logs
	if err := os.MkdirAll("logs", 0o755); err == nil {
		return filepath.Join("logs", "spordle.log")
	}

	return "spordle.log"
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
