// Package logging sets up the arbor logger. The terminal belongs to the TUI,
// so output goes to a file only.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"github.com/altinukshini/jobs-tui/internal/config"
)

// New returns a file-backed logger at the configured level. With an empty
// file path it returns a logger with no writers, which discards everything.
func New(cfg config.LoggingConfig) (arbor.ILogger, error) {
	if cfg.File == "" {
		return arbor.NewLogger().WithLevelFromString(cfg.Level), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	logger := arbor.NewLogger().WithFileWriter(models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   cfg.File,
		TimeFormat: "15:04:05.000",
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 3,
		OutputType: models.OutputFormatLogfmt,
	})
	return logger.WithLevelFromString(cfg.Level), nil
}
