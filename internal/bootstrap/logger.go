package bootstrap

import (
	"io"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/phuslu/log"
)

// InitLogger replaces the global logger: colored console output in
// development, JSON lines in production.
func InitLogger(cfg config.AppConfig, w io.Writer) {
	logger := log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
	}
	if cfg.IsProduction() {
		logger.Writer = &log.IOWriter{Writer: w}
	} else {
		logger.Caller = 1
		logger.Writer = &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    true,
			EndWithMessage: true,
		}
	}
	log.DefaultLogger = logger
}
