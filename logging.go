package arrivals

import (
	"io"
	"log/slog"
)

// NewLogger creates the structured logger used across the pipeline,
// with JSON output. Components treat a nil logger as "stay quiet", so
// library users only wire this up when they want the chatter.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
