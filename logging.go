package dvsim

// logging.go builds the logger handed to the driver and its routers

import (
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger returns a logger that writes colored records to stderr and, when logPath
// is not empty, plain text records to that file as well. The returned function
// closes the file.
func NewLogger(level slog.Level, logPath string, prefix string) (*slog.Logger, func() error, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			TimeFormat:   "15:04:05",
			CustomPrefix: prefix,
		}))

	closer := func() error { return nil }
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
