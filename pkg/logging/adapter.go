package logging

import (
	"github.com/rs/zerolog"

	"github.com/graphops-io/tenantctl/pkg/graph"
)

// GraphLogger adapts a zerolog logger to the graph.Logger seam used by the
// client internals.
type GraphLogger struct {
	logger zerolog.Logger
}

// NewGraphLogger wraps a zerolog logger for use as a graph.Logger.
func NewGraphLogger(logger zerolog.Logger) *GraphLogger {
	return &GraphLogger{logger: logger}
}

// Debug implements graph.Logger.
func (l *GraphLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements graph.Logger.
func (l *GraphLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements graph.Logger.
func (l *GraphLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements graph.Logger.
func (l *GraphLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}

// Nop returns a graph.Logger that discards everything.
func Nop() graph.Logger {
	return &GraphLogger{logger: zerolog.Nop()}
}
