package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const (
	ansiReset     = "\033[0m"
	ansiRed       = "\033[31m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiCyan      = "\033[36m"
	ansiGray      = "\033[90m"
	ansiUnderline = "\033[4m"
)

//nolint:gochecknoglobals
var levelColors = map[slog.Level]string{
	slog.LevelDebug: ansiCyan,
	slog.LevelInfo:  ansiGreen,
	slog.LevelWarn:  ansiYellow,
	slog.LevelError: ansiRed,
}

// ConsoleHandler is a slog.Handler printing colored, human-readable records
// for development.
type ConsoleHandler struct {
	// Output receives the formatted records
	Output io.Writer
	// Level is the minimum level of records to print
	Level slog.Leveler
	// LoggerLevels overrides Level per logger name prefix
	LoggerLevels map[string]slog.Level

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs))

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	attrs = append(attrs, h.attrs...)

	if !h.loggerEnabled(loggerName(attrs), r.Level) {
		return nil
	}

	var b strings.Builder

	b.WriteString(ansiGray + r.Time.Format("15:04:05.000000") + ansiReset)
	b.WriteString(" " + levelColors[r.Level] + "[" + r.Level.String() + "]" + ansiReset)
	b.WriteString(" " + r.Message)

	if len(attrs) > 0 {
		var prefix string
		if len(h.groups) > 0 {
			prefix = strings.Join(h.groups, ".") + "."
		}

		b.WriteString(" " + ansiGray + "|" + ansiReset)
		writeAttrs(&b, prefix, attrs)
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()

		b.WriteString("\n-> " + ansiGray + filepath.Base(frame.Function) + "()")
		b.WriteString(" in " + ansiUnderline + frame.File + ":" + strconv.Itoa(frame.Line) + ansiReset)
	}

	if _, err := fmt.Fprintln(h.Output, b.String()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}

// loggerEnabled applies the most specific LoggerLevels entry for name,
// walking from "a.b.c" to "a.b", "a" and finally the empty name. Without
// any entry the handler level applies.
func (h *ConsoleHandler) loggerEnabled(name string, level slog.Level) bool {
	for {
		if threshold, ok := h.LoggerLevels[name]; ok {
			return level >= threshold
		}

		if name == "" {
			return level >= h.Level.Level()
		}

		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[:i]
		} else {
			name = ""
		}
	}
}

func loggerName(attrs []slog.Attr) string {
	for _, attr := range attrs {
		if attr.Key == LoggerKey {
			return attr.Value.String()
		}
	}

	return ""
}

func writeAttrs(b *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			writeAttrs(b, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		b.WriteString(" " + prefix + attr.Key + "=" + ansiGray + attr.Value.String() + ansiReset)
	}
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) Handler {
	return &ConsoleHandler{
		Output:       h.Output,
		Level:        h.Level,
		LoggerLevels: h.LoggerLevels,
		attrs:        append(append([]slog.Attr(nil), h.attrs...), attrs...),
		groups:       h.groups,
	}
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) Handler {
	return &ConsoleHandler{
		Output:       h.Output,
		Level:        h.Level,
		LoggerLevels: h.LoggerLevels,
		attrs:        h.attrs,
		groups:       append(append([]string(nil), h.groups...), name),
	}
}

// Enabled implements slog.Handler. Per-logger levels may lower the global
// level, so records are admitted here and filtered again in Handle.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if len(h.LoggerLevels) > 0 {
		return true
	}

	return h.Level.Level() <= level
}
