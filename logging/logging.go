// Package logging builds the process-wide zap logger from the logging
// section of the configuration. The library itself never requires this to
// have run: packages fall back to errors.DefaultLogger, and everything
// behaves correctly when that sink is a no-op.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nanograph-ai/nanograph/config"
	"github.com/nanograph-ai/nanograph/errors"
)

// New builds a logger for the given configuration. When cfg.File is set
// and logPath is non-empty (typically the path returned by
// config.Bootstrap), log output is additionally appended to that file.
func New(cfg config.LoggingConfig, logPath string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.NewConfigError("parse log level", err)
		}
		level = parsed
	}

	var encoder zapcore.Encoder
	if cfg.Format == "text" {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg := zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level),
	}

	if cfg.File && logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.NewConfigError("open log file", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(f), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
