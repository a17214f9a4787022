package logging

import (
	"io"
	"log"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the process-wide logger. When logFile is set, output is
// duplicated to a size-rotated file; otherwise it goes to stderr only.
// The standard log package is redirected through the same writer so
// component-prefixed log.Printf lines land in the same place.
func Setup(logFile string) *slog.Logger {
	var w io.Writer = os.Stderr
	if logFile != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	logger := slog.New(slog.NewTextHandler(w, nil))
	slog.SetDefault(logger)
	log.SetOutput(w)
	return logger
}
