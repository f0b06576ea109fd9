package log

import (
	"context"
	"fmt"
	"log"
	"strings"
)

var logControlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func sanitizeLogString(s string) string {
	return logControlCharReplacer.Replace(s)
}

// GoLogger is the standard library (log) implementation of Logger.
// It is meant for tests, examples and tools that cannot pull zap in.
//
// Control characters in messages and string fields are escaped to prevent
// log injection (CWE-117).
type GoLogger struct {
	Level  Level
	fields []Field
	groups []string
}

// NewGoLogger creates a GoLogger emitting messages up to level.
func NewGoLogger(level Level) *GoLogger {
	return &GoLogger{Level: level}
}

// Enabled reports whether the logger emits messages at level.
func (l *GoLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Log writes one line: "[level] msg key=value ...".
func (l *GoLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	var sb strings.Builder

	sb.WriteString("[")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	sb.WriteString(sanitizeLogString(msg))

	for _, field := range l.fields {
		l.writeField(&sb, field)
	}

	for _, field := range fields {
		l.writeField(&sb, field)
	}

	log.Print(sb.String())
}

// With returns a child logger carrying fields on every message.
//
//nolint:ireturn
func (l *GoLogger) With(fields ...Field) Logger {
	if l == nil {
		return NewNop()
	}

	child := &GoLogger{
		Level:  l.Level,
		fields: make([]Field, 0, len(l.fields)+len(fields)),
		groups: l.groups,
	}

	child.fields = append(child.fields, l.fields...)

	for _, field := range fields {
		child.fields = append(child.fields, Field{Key: l.qualify(field.Key), Value: field.Value})
	}

	return child
}

// WithGroup returns a child logger whose subsequent field keys are prefixed by name.
//
//nolint:ireturn
func (l *GoLogger) WithGroup(name string) Logger {
	if l == nil {
		return NewNop()
	}

	if name == "" {
		return l
	}

	groups := make([]string, 0, len(l.groups)+1)
	groups = append(groups, l.groups...)

	return &GoLogger{
		Level:  l.Level,
		fields: l.fields,
		groups: append(groups, name),
	}
}

// Sync is a no-op: the standard logger writes synchronously.
func (l *GoLogger) Sync(_ context.Context) error {
	return nil
}

func (l *GoLogger) qualify(key string) string {
	if len(l.groups) == 0 {
		return key
	}

	return strings.Join(l.groups, ".") + "." + key
}

func (l *GoLogger) writeField(sb *strings.Builder, field Field) {
	sb.WriteString(" ")
	sb.WriteString(sanitizeLogString(field.Key))
	sb.WriteString("=")

	switch value := field.Value.(type) {
	case string:
		sb.WriteString(sanitizeLogString(value))
	case error:
		sb.WriteString(sanitizeLogString(value.Error()))
	default:
		sb.WriteString(sanitizeLogString(fmt.Sprintf("%v", value)))
	}
}
