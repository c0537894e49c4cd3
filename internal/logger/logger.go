package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup returns a JSON slog.Logger writing to w at the given level.
func Setup(w io.Writer, level slog.Leveler) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// Open creates the logger used by the terminal program. The terminal belongs
// to the UI, so output goes to path; an empty path discards it. The returned
// close func releases the file.
func Open(path string, level slog.Leveler) (*slog.Logger, func() error, error) {
	if path == "" {
		return Setup(io.Discard, level), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return Setup(f, level), f.Close, nil
}
