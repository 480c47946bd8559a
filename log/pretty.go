package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the lipgloss styles used by prettyHandler. Styles are bound
// to a renderer for the handler's writer, so color is only emitted when that
// writer is a terminal.
type palette struct {
	time, key, str, num, source lipgloss.Style
	yes, no                     lipgloss.Style
	level                       map[Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	return palette{
		time:   r.NewStyle().Foreground(lipgloss.Color("8")),
		key:    r.NewStyle().Foreground(lipgloss.Color("8")),
		str:    r.NewStyle().Foreground(lipgloss.Color("6")),
		num:    r.NewStyle().Foreground(lipgloss.Color("3")),
		source: r.NewStyle().Faint(true),
		yes:    r.NewStyle().Foreground(lipgloss.Color("2")),
		no:     r.NewStyle().Foreground(lipgloss.Color("1")),
		level: map[Level]lipgloss.Style{
			LevelTrace:  r.NewStyle().Foreground(lipgloss.Color("4")),
			LevelDebug:  r.NewStyle().Foreground(lipgloss.Color("4")),
			LevelInfo:   r.NewStyle().Foreground(lipgloss.Color("2")),
			LevelNotice: r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
			LevelWarn:   r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			LevelError:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// levelStyle returns the style of the closest named level at or below l.
func (p palette) levelStyle(l Level) lipgloss.Style {
	style := p.level[LevelTrace]

	for _, named := range levels {
		if named <= l {
			style = p.level[named]
		}
	}

	return style
}

// prettyHandler implements a styled text handler for log messages:
//
//	[time] LEVEL message key=value key=value
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	style      palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		style:      makePalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.style.time.Render(ts))
			buf.WriteByte(' ')
		}
	}

	level := Level(r.Level)
	buf.WriteString(h.style.levelStyle(level).Render(
		fmt.Sprintf("%-6s", strings.ToUpper(level.String())),
	))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteString(h.style.source.Render(
				fmt.Sprintf("%s:%d", src.File, src.Line),
			))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(r.Message)

	prefix := strings.Join(h.groups, ".")

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := strings.Join(h.groups, ".")

	next := *h
	next.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualify(prefix, attrs)...)

	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := *h
	next.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &next
}

// qualify prefixes each attribute key with the dotted group path.
func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	if prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + "." + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, key, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.style.key.Render(key + "="))
	buf.WriteString(h.renderValue(a.Value))
}

func (h *prettyHandler) renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		return h.style.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return h.style.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	default:
		return h.style.str.Render(v.String())
	}
}
