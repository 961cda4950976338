package logger

import "go.uber.org/zap"

// New builds the process-wide sugared logger. Development swaps the JSON
// encoder for the console one and lowers the level to debug.
func New(development bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
