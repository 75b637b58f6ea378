package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/samber/do/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config of the logging
type Config struct {
	Level      string `yaml:"level"`      // debug, info, warn, error
	JSON       bool   `yaml:"json"`       // json instead of text output
	Filename   string `yaml:"filename"`   // log to a rotated file instead of stdout
	MaxSize    int    `yaml:"maxsize"`    // megabytes
	MaxBackups int    `yaml:"maxbackups"` // number of rotated files to keep
	MaxAge     int    `yaml:"maxage"`     // days
	Gelfurl    string `yaml:"gelf-url"`   // e.g. udp://graylog:12201
	Facility   string `yaml:"facility"`
}

var (
	level   = new(slog.LevelVar)
	closers []io.Closer
	clock   sync.Mutex
)

// Init configures the root logger with the logging config of the injector
func Init(inj do.Injector) {
	cfg := do.MustInvoke[*Config](inj)
	if err := Setup(*cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error on logging setup: %v\r\n", err)
	}
}

// Setup builds the handlers and sets the default slog logger. On error the
// stdout logging is still set up.
func Setup(cfg Config) error {
	Close()
	var errs error
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		errs = errors.Join(errs, err)
	}
	level.Set(lvl)

	var w io.Writer = os.Stdout
	if cfg.Filename != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		addCloser(lj)
		w = lj
	}
	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, hopts)
	if cfg.JSON {
		h = slog.NewJSONHandler(w, hopts)
	}

	if cfg.Gelfurl != "" {
		gh, err := newGelfHandler(cfg.Gelfurl, cfg.Facility, level)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			addCloser(gh)
			h = &multiHandler{handlers: []slog.Handler{h, gh}}
		}
	}
	slog.SetDefault(slog.New(h))
	return errs
}

// New creates a named logger, use it after Setup/Init
func New(name string) *slog.Logger {
	return slog.Default().With("logger", name)
}

// ParseLevel converts the config value, an empty value is info
func ParseLevel(lvl string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", lvl)
}

// Close flushes and closes the log file and the gelf client
func Close() {
	clock.Lock()
	defer clock.Unlock()
	for _, c := range closers {
		_ = c.Close()
	}
	closers = nil
}

func addCloser(c io.Closer) {
	clock.Lock()
	defer clock.Unlock()
	closers = append(closers, c)
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			errs = errors.Join(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errs
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: hs}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: hs}
}
