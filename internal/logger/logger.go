// Package logger builds the process zap logger.
package logger

import "go.uber.org/zap"

// New returns a production logger for env "production" and a development
// logger otherwise.
func New(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err == nil {
			return logger
		}
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func Nop() *zap.Logger {
	return zap.NewNop()
}
