package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Development uses the console encoder, otherwise JSON.
func New(level string, development bool) (*zap.Logger, error) {
	cfg, err := buildConfig(level, development)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

func buildConfig(level string, development bool) (zap.Config, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg, nil
}
