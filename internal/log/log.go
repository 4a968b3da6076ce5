// Package log provides centralized logging functionality using zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

// Until Init runs, logging is discarded.
var (
	baseLogger = zap.NewNop()
	log        = baseLogger.Sugar()
)

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	// The sugared helpers add one frame; direct Zap() callers do not.
	baseLogger = zapLogger.WithOptions(zap.AddCallerSkip(-1))
	log = zapLogger.Sugar()
	return nil
}

// Zap returns the base zap logger, e.g. for request logging middleware.
func Zap() *zap.Logger { return baseLogger }

func sugared() *zap.SugaredLogger { return log }

// Sync flushes any buffered log entries
func Sync() {
	_ = log.Sync()
}

func Debugf(template string, args ...any) { sugared().Debugf(template, args...) }
func Infof(template string, args ...any)  { sugared().Infof(template, args...) }
func Warnf(template string, args ...any)  { sugared().Warnf(template, args...) }
func Errorf(template string, args ...any) { sugared().Errorf(template, args...) }
func Fatalf(template string, args ...any) { sugared().Fatalf(template, args...) }

// Infow logs a message with structured key/value pairs.
func Infow(msg string, keysAndValues ...any) { sugared().Infow(msg, keysAndValues...) }
