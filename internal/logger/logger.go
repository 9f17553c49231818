package logger

import (
	"khesed-tek/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the console logger and tees it into the DB writer
func NewLogger(cfg *config.Config, dbWriter *DBLogWriter) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller function name is stored with every DB log row
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
