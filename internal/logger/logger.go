package logger

import (
	"go.uber.org/zap"
)

// Logger is a thin wrapper over zap's sugared logger with
// key/value pairs, so call sites read log.Info("msg", "key", val).
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a logger for the given mode: "production" gets JSON
// output, anything else gets the development console encoder.
func New(mode string) (*Logger, error) {
	var z *zap.Logger
	var err error
	if mode == "production" {
		z, err = zap.NewProduction()
	} else {
		z, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{s: z.Sugar()}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

func (l *Logger) Sync() { _ = l.s.Sync() }
