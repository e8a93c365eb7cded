// Package logger builds the process logger. One sugared zap logger is
// created at startup and handed to whoever needs it; nothing logs through
// a package-level global.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates the process logger. When debug is set, a development config
// is used (console encoding, DebugLevel).
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
