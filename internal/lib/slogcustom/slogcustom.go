package slogcustom

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/fatih/color"
)

// Handler prints one colored line per record.
type Handler struct {
	l     *log.Logger
	level slog.Leveler
	attrs []slog.Attr
}

func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		l:     log.New(out, "", 0),
		level: level,
	}
}

// New builds a logger writing to out at the named level ("debug", "info", "warn", "error").
func New(out io.Writer, level string) *slog.Logger {
	return slog.New(NewHandler(out, ParseLevel(level)))
}

func ParseLevel(raw string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.HiBlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	var sb strings.Builder
	write := func(a slog.Attr) bool {
		sb.WriteString(color.GreenString(a.Key))
		sb.WriteString("=")
		sb.WriteString(fmt.Sprint(a.Value.Any()))
		sb.WriteString(" ")
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	h.l.Println(
		r.Time.Format("15:04:05.000"),
		level,
		r.Message,
		sb.String(),
	)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}
