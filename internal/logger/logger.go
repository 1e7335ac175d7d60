package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var levelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// Logger is the printf-style logging surface threaded through the stages
// that touch the outside world (fetch, sampling, invocation, writing).
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

type logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger writing human-readable lines to stderr. When logsDir is
// non-empty a rotating JSON file sink is added under it, one file per day.
func New(level, logsDir string) Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel, ok := levelMap[strings.ToLower(level)]
	if !ok {
		logLevel = zapcore.InfoLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stderr), logLevel),
	}

	if logsDir != "" {
		name := filepath.Join(logsDir, fmt.Sprintf("readmegen-%s.log", time.Now().Format("20060102")))
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   name,
			MaxSize:    50, // megabytes
			MaxBackups: 0,
			MaxAge:     7, // days
			Compress:   true,
			LocalTime:  true,
		})
		fileEncoder := encoderConfig
		fileEncoder.EncodeLevel = zapcore.LowercaseLevelEncoder
		fileEncoder.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), fileWriter, logLevel))
	}

	sugar := zap.New(zapcore.NewTee(cores...)).Sugar()
	return &logger{sugar: sugar}
}

// NewNop returns a logger that discards everything. Intended for tests.
func NewNop() Logger {
	return &logger{sugar: zap.NewNop().Sugar()}
}

func (l *logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *logger) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *logger) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *logger) Fatal(format string, args ...any) { l.sugar.Fatalf(format, args...) }
