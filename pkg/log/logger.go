package log

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the global structured logger.
	L *zap.Logger
	// S is the global sugared logger, for printf-style convenience.
	S *zap.SugaredLogger
)

// Init initializes the global loggers L and S.
// logLevel may be "debug", "info", "warn", "error", "dpanic", "panic" or "fatal".
// env selects the encoder: "development" gets the console encoder, anything
// else the production JSON encoder.
func Init(logLevel string, env string) {
	var cfg zap.Config
	if strings.ToLower(env) == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Logging is fundamental; a broken logger config is not recoverable.
		panic(fmt.Sprintf("failed to build zap logger: %v", err))
	}

	L = logger
	S = logger.Sugar()
	zap.ReplaceGlobals(L)
}

// Sync flushes buffered log entries. Call it in a defer from main.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}

func init() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	Init(logLevel, appEnv)
}
