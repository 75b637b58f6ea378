package logging

import (
	"context"
	"log/slog"

	"github.com/aphistic/golf"
)

// gelfHandler ships log records to a graylog server
type gelfHandler struct {
	client *golf.Client
	lg     *golf.Logger
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func newGelfHandler(url, facility string, level slog.Leveler) (*gelfHandler, error) {
	c, err := golf.NewClient()
	if err != nil {
		return nil, err
	}
	if err := c.Dial(url); err != nil {
		c.Close()
		return nil, err
	}
	lg, err := c.NewLogger()
	if err != nil {
		c.Close()
		return nil, err
	}
	if facility == "" {
		facility = "go_heightmap"
	}
	lg.SetAttr("facility", facility)
	return &gelfHandler{
		client: c,
		lg:     lg,
		level:  level,
	}, nil
}

func (h *gelfHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *gelfHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})
	switch {
	case r.Level >= slog.LevelError:
		return h.lg.Errm(attrs, "%s", r.Message)
	case r.Level >= slog.LevelWarn:
		return h.lg.Warnm(attrs, "%s", r.Message)
	case r.Level >= slog.LevelInfo:
		return h.lg.Infom(attrs, "%s", r.Message)
	}
	return h.lg.Dbgm(attrs, "%s", r.Message)
}

func (h *gelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &nh
}

func (h *gelfHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.group = h.key(name)
	return &nh
}

func (h *gelfHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func (h *gelfHandler) Close() error {
	return h.client.Close()
}
