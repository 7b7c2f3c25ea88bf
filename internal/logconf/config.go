// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// RootLoggerName is the configuration name and the record name of the root logger.
	RootLoggerName = "root"
)

var (
	// ErrParsing reports failures that occur while decoding logging configuration files.
	ErrParsing = errors.New("error parsing")
	// ErrInvalidConfig reports a configuration that decoded correctly but references
	// undefined entities or contains invalid values.
	ErrInvalidConfig = errors.New("invalid logging configuration")
)

// Config is the parsed logging configuration. It must be treated as read only.
type Config struct {
	Source string `json:"source" yaml:"source"`

	Loggers    map[string]*Logger    `json:"loggers" yaml:"loggers"`
	Handlers   map[string]*Handler   `json:"handlers" yaml:"handlers"`
	Formatters map[string]*Formatter `json:"formatters" yaml:"formatters"`

	// LoggerNames, HandlerNames and FormatterNames keep the declaration order.
	LoggerNames    []string `json:"-" yaml:"-"`
	HandlerNames   []string `json:"-" yaml:"-"`
	FormatterNames []string `json:"-" yaml:"-"`

	// problems collects structural errors found by the loaders.
	problems []string
}

// Logger holds a logger definition.
type Logger struct {
	Name      string   `json:"name" yaml:"name"`
	Qualname  string   `json:"qualname" yaml:"qualname"`
	Level     string   `json:"level,omitempty" yaml:"level,omitempty"`
	Handlers  []string `json:"handlers" yaml:"handlers"`
	Propagate bool     `json:"propagate" yaml:"propagate"`
}

// Handler holds a handler definition.
type Handler struct {
	Name      string `json:"name" yaml:"name"`
	Class     string `json:"class" yaml:"class"`
	Level     string `json:"level,omitempty" yaml:"level,omitempty"`
	Formatter string `json:"formatter,omitempty" yaml:"formatter,omitempty"`
	Args      []Arg  `json:"args" yaml:"args"`
}

// Formatter holds a formatter definition.
type Formatter struct {
	Name       string `json:"name" yaml:"name"`
	Format     string `json:"format" yaml:"format"`
	DateFormat string `json:"datefmt,omitempty" yaml:"datefmt,omitempty"`
	Style      string `json:"style" yaml:"style"`
}

func newConfig(source string) *Config {
	return &Config{
		Source:     source,
		Loggers:    make(map[string]*Logger),
		Handlers:   make(map[string]*Handler),
		Formatters: make(map[string]*Formatter),
	}
}

func (c *Config) addProblem(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

// LoadFile reads the configuration at path. Files with a .yaml or .yml extension are
// decoded as YAML, everything else as INI. Errors opening the file are returned as is,
// so callers can check them against fs.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(file, path)
	default:
		return LoadINI(file, path)
	}
}

// Validate checks that every referenced handler and formatter exists and that levels,
// handler classes, handler arguments and format strings are valid. All the violations
// are reported in a single error wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	errorsList := append([]string{}, c.problems...)

	if _, ok := c.Loggers[RootLoggerName]; !ok {
		errorsList = append(errorsList, "missing root logger")
	}

	qualnames := make(map[string]string)
	for _, name := range c.LoggerNames {
		logger, ok := c.Loggers[name]
		if !ok {
			continue
		}

		if _, err := ParseLevel(logger.Level); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("logger %q: %s", name, err))
		}

		if name != RootLoggerName {
			switch other, exists := qualnames[logger.Qualname]; {
			case logger.Qualname == "":
				errorsList = append(errorsList, fmt.Sprintf("logger %q: missing qualname", name))
			case exists:
				errorsList = append(errorsList, fmt.Sprintf("logger %q: qualname %q already used by logger %q", name, logger.Qualname, other))
			default:
				qualnames[logger.Qualname] = name
			}
		}

		for _, handlerName := range logger.Handlers {
			if _, ok := c.Handlers[handlerName]; !ok {
				errorsList = append(errorsList, fmt.Sprintf("logger %q: handler %q is not defined", name, handlerName))
			}
		}
	}

	for _, name := range c.HandlerNames {
		handler, ok := c.Handlers[name]
		if !ok {
			continue
		}

		if _, err := ParseLevel(handler.Level); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("handler %q: %s", name, err))
		}

		if _, err := handler.Sink(); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("handler %q: %s", name, err))
		}

		if handler.Formatter != "" {
			if _, ok := c.Formatters[handler.Formatter]; !ok {
				errorsList = append(errorsList, fmt.Sprintf("handler %q: formatter %q is not defined", name, handler.Formatter))
			}
		}
	}

	for _, name := range c.FormatterNames {
		formatter, ok := c.Formatters[name]
		if !ok {
			continue
		}

		if formatter.Style != StylePercent {
			errorsList = append(errorsList, fmt.Sprintf("formatter %q: unsupported style %q", name, formatter.Style))
			continue
		}

		if _, err := ParseFormat(formatter.Format); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("formatter %q: %s", name, err))
		}
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidConfig, c.Source, strings.Join(errorsList, "; "))
	}

	return nil
}

// splitNames splits a comma separated list of names, dropping empty entries.
func splitNames(value string) []string {
	names := make([]string, 0)
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	return names
}
