// Package logger initializes the process-wide zap logger.
package logger

import "go.uber.org/zap"

// Init builds the production logger.
func Init() (*zap.Logger, error) {
	return zap.NewProduction()
}
