package mqtt5

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
)

// consoleHandler is a slog.Handler that colorizes the level and message the
// way life-stream's AsyncHandler does, minus the async channel and daily
// file rotation: this is a library, so it writes synchronously to whatever
// io.Writer the caller hands it (stdout by default) rather than owning a
// log file of its own.
type consoleHandler struct {
	w     io.Writer
	attrs []slog.Attr
}

// NewConsoleLogger returns a *slog.Logger that writes colorized,
// human-readable lines to w (os.Stdout if w is nil). Pass it to
// WithLogger to trace packet construction at Debug level and
// protocol-fatal events at Warn level.
func NewConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(&levelFilterHandler{level: level, next: &consoleHandler{w: w}})
}

type levelFilterHandler struct {
	level slog.Level
	next  slog.Handler
}

func (h *levelFilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}
func (h *levelFilterHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}
func (h *levelFilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelFilterHandler{level: h.level, next: h.next.WithAttrs(attrs)}
}
func (h *levelFilterHandler) WithGroup(name string) slog.Handler {
	return &levelFilterHandler{level: h.level, next: h.next.WithGroup(name)}
}

func (h *consoleHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	levelStr := r.Level.String()
	switch r.Level {
	case slog.LevelDebug:
		levelStr = color.MagentaString(levelStr)
	case slog.LevelInfo:
		levelStr = color.BlueString(levelStr)
	case slog.LevelWarn:
		levelStr = color.YellowString(levelStr)
	case slog.LevelError:
		levelStr = color.RedString(levelStr)
	}

	line := fmt.Sprintf("%s | %-5s | %s",
		color.GreenString(r.Time.Format("15:04:05.000")),
		levelStr,
		color.CyanString(r.Message),
	)
	for _, a := range h.attrs {
		line += color.CyanString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		line += color.CyanString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
		return true
	})
	line += "\n"
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{w: h.w, attrs: merged}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	// Packet-engine logging never nests groups deep enough to need prefix
	// tracking; attrs already carry enough context (packet type, id).
	return h
}
