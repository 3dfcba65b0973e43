package logger

import (
	"assixx/internal/config"
	"assixx/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the console logger and wires the async DB sink that
// mirrors entries into the system_logs table.
func NewLogger(cfg *config.Config, db *database.SQLDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(db, cfg)

	// Tee core: every entry still reaches the console and additionally
	// flows to the buffered DB writer.
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
