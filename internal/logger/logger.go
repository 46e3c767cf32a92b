package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init builds the global logger. Production mode emits JSON,
// anything else gets the human-readable development encoder.
func Init(env string) {
	once.Do(func() {
		var err error
		if env == "production" {
			log, err = zap.NewProduction()
		} else {
			log, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	})
}

// L returns the global logger instance
func L() *zap.Logger {
	if log == nil {
		Init("")
	}
	return log
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = L().Sync()
}
