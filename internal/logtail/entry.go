package logtail

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"
)

// Entry is one decoded zap JSON line.
type Entry struct {
	Time    string
	Level   zapcore.Level
	Logger  string
	Message string
	Fields  map[string]any
	Raw     string
}

// Parse decodes a zap JSON line. Lines that are not JSON objects come back
// with ok false and the text as Message at info level.
func Parse(line string) (entry Entry, ok bool) {
	entry = Entry{Level: zapcore.InfoLevel, Message: line, Raw: line}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return entry, false
	}

	if lvl, _ := fields["level"].(string); lvl != "" {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			entry.Level = parsed
		}
	}
	entry.Time, _ = fields["ts"].(string)
	entry.Logger, _ = fields["logger"].(string)
	entry.Message, _ = fields["msg"].(string)
	for _, key := range []string{"level", "ts", "logger", "msg", "caller", "stacktrace"} {
		delete(fields, key)
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	return entry, true
}

// Filter decodes lines and keeps the entries at or above min.
func Filter(lines []string, min zapcore.Level) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, _ := Parse(line)
		if entry.Level >= min {
			out = append(out, entry)
		}
	}
	return out
}

// String renders the entry as a single plain line: time, level, logger,
// message, then fields sorted by key.
func (e Entry) String() string {
	var b strings.Builder
	if e.Time != "" {
		b.WriteString(e.Time)
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToUpper(e.Level.String()))
	if e.Logger != "" {
		b.WriteString(" [")
		b.WriteString(e.Logger)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)
	b.WriteString(e.fieldText())
	return b.String()
}

func (e Entry) fieldText() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

var (
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	loggerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	levelStyles = map[zapcore.Level]lipgloss.Style{
		zapcore.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
		zapcore.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		zapcore.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		zapcore.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

// Colorize renders the entry like String with terminal colors per part.
// On a terminal without color support the output equals String.
func Colorize(e Entry) string {
	level, ok := levelStyles[e.Level]
	if !ok {
		level = levelStyles[zapcore.ErrorLevel]
	}
	parts := make([]string, 0, 5)
	if e.Time != "" {
		parts = append(parts, timeStyle.Render(e.Time))
	}
	parts = append(parts, level.Render(strings.ToUpper(e.Level.String())))
	if e.Logger != "" {
		parts = append(parts, loggerStyle.Render("["+e.Logger+"]"))
	}
	parts = append(parts, e.Message)
	line := strings.Join(parts, " ")
	if fields := e.fieldText(); fields != "" {
		line += fieldStyle.Render(fields)
	}
	return line
}
