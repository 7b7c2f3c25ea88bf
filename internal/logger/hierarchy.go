// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mia-platform/smhi/internal/logconf"
)

const (
	// callerSkip is the number of frames between a Logger method caller and newRecord.
	callerSkip = 3
)

// node is a configured logger in the dotted name tree.
type node struct {
	level     logconf.Level
	handlers  []*Handler
	propagate bool
}

// Hierarchy dispatches records of named loggers to the handlers configured
// for them and for their ancestors.
type Hierarchy struct {
	lock     sync.RWMutex
	nodes    map[string]*node
	handlers []*Handler
	streams  Streams
}

// NewHierarchy builds formatters, handlers and loggers of a validated configuration.
// On error every handler already opened is closed.
func NewHierarchy(config *logconf.Config, streams Streams) (*Hierarchy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	formatters := make(map[string]*Formatter, len(config.Formatters))
	for _, name := range config.FormatterNames {
		definition := config.Formatters[name]
		formatter, err := NewFormatter(definition.Format, definition.DateFormat, definition.Style)
		if err != nil {
			return nil, fmt.Errorf("formatter %q: %w", name, err)
		}
		formatters[name] = formatter
	}

	hierarchy := &Hierarchy{
		nodes:   make(map[string]*node, len(config.Loggers)),
		streams: streams,
	}

	handlers := make(map[string]*Handler, len(config.Handlers))
	for _, name := range config.HandlerNames {
		definition := config.Handlers[name]
		handler, err := NewHandler(definition, formatters[definition.Formatter], streams)
		if err != nil {
			return nil, errors.Join(err, hierarchy.Close())
		}
		handlers[name] = handler
		hierarchy.handlers = append(hierarchy.handlers, handler)
	}

	for _, name := range config.LoggerNames {
		definition := config.Loggers[name]
		level, err := logconf.ParseLevel(definition.Level)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("logger %q: %w", name, err), hierarchy.Close())
		}

		// the root logger keeps WARNING when no level is given
		if name == logconf.RootLoggerName && strings.TrimSpace(definition.Level) == "" {
			level = logconf.LevelWarning
		}

		loggerNode := &node{level: level, propagate: definition.Propagate}
		for _, handlerName := range definition.Handlers {
			loggerNode.handlers = append(loggerNode.handlers, handlers[handlerName])
		}

		qualname := definition.Qualname
		if name == logconf.RootLoggerName {
			qualname = logconf.RootLoggerName
		}
		hierarchy.nodes[qualname] = loggerNode
	}

	return hierarchy, nil
}

// Logger returns the logger with the given dotted name. An empty name is the root logger.
func (h *Hierarchy) Logger(name string) Logger {
	if name == "" {
		name = logconf.RootLoggerName
	}
	return &configuredLogger{hierarchy: h, name: name}
}

// Close closes all handlers; the hierarchy stops writing records.
func (h *Hierarchy) Close() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	var errs []error
	for _, handler := range h.handlers {
		if err := handler.Close(); err != nil {
			errs = append(errs, fmt.Errorf("handler %q: %w", handler.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (h *Hierarchy) setLevel(name string, level logconf.Level) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if loggerNode, ok := h.nodes[name]; ok {
		loggerNode.level = level
		return
	}
	h.nodes[name] = &node{level: level, propagate: true}
}

// resolve returns the effective level of name and the handlers its records reach.
func (h *Hierarchy) resolve(name string) (logconf.Level, []*Handler) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	level := logconf.LevelNotSet
	levelFound := false
	collect := true
	var handlers []*Handler

	for current := name; ; current = parentName(current) {
		if loggerNode, ok := h.nodes[current]; ok {
			if !levelFound && (loggerNode.level != logconf.LevelNotSet || current == logconf.RootLoggerName) {
				level = loggerNode.level
				levelFound = true
			}
			if collect {
				handlers = append(handlers, loggerNode.handlers...)
				collect = loggerNode.propagate
			}
		}

		if current == logconf.RootLoggerName {
			break
		}
	}

	return level, handlers
}

func (h *Hierarchy) dispatch(record *Record, handlers []*Handler) {
	if len(handlers) == 0 {
		// last resort: warnings and errors are never lost
		if record.Level >= logconf.LevelWarning && h.streams.Stderr != nil {
			fmt.Fprintln(h.streams.Stderr, record.Message())
		}
		return
	}

	for _, handler := range handlers {
		if err := handler.Handle(record); err != nil && h.streams.Stderr != nil {
			fmt.Fprintf(h.streams.Stderr, "logging error in handler %q: %s\n", handler.Name(), err)
		}
	}
}

// parentName returns the dotted parent of name, the root logger for top level names.
func parentName(name string) string {
	if index := strings.LastIndexByte(name, '.'); index > 0 {
		return name[:index]
	}
	return logconf.RootLoggerName
}

// Make sure that configuredLogger is a Logger.
var _ Logger = &configuredLogger{}

// configuredLogger is a named view over a Hierarchy.
type configuredLogger struct {
	hierarchy *Hierarchy
	name      string
}

// WithName returns the logger with the given dotted name from the same hierarchy.
func (l *configuredLogger) WithName(name string) Logger {
	return l.hierarchy.Logger(name)
}

// SetLevel sets the level of this logger; descendants without a level inherit it.
func (l *configuredLogger) SetLevel(level Level) {
	l.hierarchy.setLevel(l.name, level.configLevel())
}

func (l *configuredLogger) Trace(msg string, args ...interface{}) {
	l.emit(logconf.LevelTrace, msg, args)
}

func (l *configuredLogger) Debug(msg string, args ...interface{}) {
	l.emit(logconf.LevelDebug, msg, args)
}

func (l *configuredLogger) Info(msg string, args ...interface{}) {
	l.emit(logconf.LevelInfo, msg, args)
}

func (l *configuredLogger) Warn(msg string, args ...interface{}) {
	l.emit(logconf.LevelWarning, msg, args)
}

func (l *configuredLogger) Error(msg string, args ...interface{}) {
	l.emit(logconf.LevelError, msg, args)
}

func (l *configuredLogger) emit(level logconf.Level, msg string, args []interface{}) {
	effective, handlers := l.hierarchy.resolve(l.name)
	if level < effective {
		return
	}

	record := newRecord(l.name, level, msg, args, callerSkip)
	l.hierarchy.dispatch(record, handlers)
}
