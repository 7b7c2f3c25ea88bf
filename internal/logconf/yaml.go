// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

const supportedYAMLVersion = 1

// yamlConfig is the document layout of a YAML logging configuration.
type yamlConfig struct {
	Version                int                      `yaml:"version"`
	DisableExistingLoggers *bool                    `yaml:"disable_existing_loggers,omitempty"`
	Incremental            bool                     `yaml:"incremental,omitempty"`
	Formatters             map[string]yamlFormatter `yaml:"formatters"`
	Handlers               map[string]yamlHandler   `yaml:"handlers"`
	Loggers                map[string]yamlLogger    `yaml:"loggers"`
	Root                   *yamlLogger              `yaml:"root"`
}

type yamlFormatter struct {
	Format     string `yaml:"format"`
	DateFormat string `yaml:"datefmt"`
	Style      string `yaml:"style"`
}

type yamlHandler struct {
	Class       string `yaml:"class"`
	Level       string `yaml:"level"`
	Formatter   string `yaml:"formatter"`
	Stream      string `yaml:"stream"`
	Filename    string `yaml:"filename"`
	Mode        string `yaml:"mode"`
	MaxBytes    *int64 `yaml:"maxBytes"`
	BackupCount *int64 `yaml:"backupCount"`
	When        string `yaml:"when"`
	Interval    *int64 `yaml:"interval"`
}

type yamlLogger struct {
	Level     string   `yaml:"level"`
	Handlers  []string `yaml:"handlers"`
	Propagate *bool    `yaml:"propagate"`
}

// LoadYAML parses a YAML logging configuration read from reader. source is used in error messages.
func LoadYAML(reader io.Reader, source string) (*Config, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	document := new(yamlConfig)
	if err := decoder.Decode(document); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w %q: empty document", ErrParsing, source)
		}
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, source, err)
	}

	if document.Version != supportedYAMLVersion {
		return nil, fmt.Errorf("%w %q: unsupported version %d", ErrParsing, source, document.Version)
	}

	config := newConfig(source)
	if document.Incremental {
		config.addProblem("incremental configurations are not supported")
	}

	for _, name := range slices.Sorted(maps.Keys(document.Formatters)) {
		formatter := document.Formatters[name]
		config.FormatterNames = append(config.FormatterNames, name)
		config.Formatters[name] = &Formatter{
			Name:       name,
			Format:     valueOrDefault(formatter.Format, DefaultFormat),
			DateFormat: formatter.DateFormat,
			Style:      valueOrDefault(formatter.Style, StylePercent),
		}
	}

	for _, name := range slices.Sorted(maps.Keys(document.Handlers)) {
		handler := document.Handlers[name]
		config.HandlerNames = append(config.HandlerNames, name)
		config.Handlers[name] = &Handler{
			Name:      name,
			Class:     handler.Class,
			Level:     handler.Level,
			Formatter: handler.Formatter,
			Args:      handler.args(),
		}
	}

	if document.Root != nil {
		config.LoggerNames = append(config.LoggerNames, RootLoggerName)
		config.Loggers[RootLoggerName] = document.Root.toLogger(RootLoggerName)
	}

	for _, name := range slices.Sorted(maps.Keys(document.Loggers)) {
		if name == RootLoggerName {
			config.addProblem("logger %q must be configured with the root key", name)
			continue
		}

		logger := document.Loggers[name]
		config.LoggerNames = append(config.LoggerNames, name)
		config.Loggers[name] = logger.toLogger(name)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// args converts the named handler parameters into positional arguments.
func (h yamlHandler) args() []Arg {
	kind, _ := SinkKindForClass(h.Class)
	switch kind {
	case SinkStream:
		if h.Stream == "" {
			return []Arg{}
		}
		return []Arg{SymbolArg(h.Stream)}
	case SinkFile:
		args := []Arg{StringArg(h.Filename)}
		if h.Mode != "" {
			args = append(args, StringArg(h.Mode))
		}
		return args
	case SinkRotatingFile:
		args := []Arg{StringArg(h.Filename), StringArg(valueOrDefault(h.Mode, ModeAppend))}
		if h.MaxBytes != nil || h.BackupCount != nil {
			args = append(args, IntArg(valueOrZero(h.MaxBytes)), IntArg(valueOrZero(h.BackupCount)))
		}
		return args
	case SinkTimedFile:
		args := []Arg{StringArg(h.Filename)}
		if h.When != "" || h.Interval != nil || h.BackupCount != nil {
			interval := valueOrZero(h.Interval)
			if interval == 0 {
				interval = 1
			}
			args = append(args, StringArg(valueOrDefault(h.When, defaultWhen)), IntArg(interval), IntArg(valueOrZero(h.BackupCount)))
		}
		return args
	default:
		return []Arg{}
	}
}

func (l yamlLogger) toLogger(name string) *Logger {
	propagate := true
	if l.Propagate != nil {
		propagate = *l.Propagate
	}

	handlers := l.Handlers
	if handlers == nil {
		handlers = []string{}
	}

	return &Logger{
		Name:      name,
		Qualname:  name,
		Level:     l.Level,
		Handlers:  handlers,
		Propagate: propagate,
	}
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func valueOrZero(value *int64) int64 {
	if value == nil {
		return 0
	}
	return *value
}
