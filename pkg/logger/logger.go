package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger = zap.NewNop()

// Init builds the process-wide logger. Production env gets JSON output,
// everything else gets the development console encoder.
func Init(env string) error {
	var (
		built *zap.Logger
		err   error
	)

	if env == "production" {
		built, err = zap.NewProduction()
	} else {
		built, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	log = built
	return nil
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries.
func Sync() {
	_ = log.Sync()
}
