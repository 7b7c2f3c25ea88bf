// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	loggersSection    = "loggers"
	handlersSection   = "handlers"
	formattersSection = "formatters"

	loggerSectionPrefix    = "logger_"
	handlerSectionPrefix   = "handler_"
	formatterSectionPrefix = "formatter_"

	keysKey      = "keys"
	levelKey     = "level"
	handlersKey  = "handlers"
	qualnameKey  = "qualname"
	propagateKey = "propagate"
	classKey     = "class"
	formatterKey = "formatter"
	argsKey      = "args"
	kwargsKey    = "kwargs"
	formatKey    = "format"
	datefmtKey   = "datefmt"
	styleKey     = "style"

	defaultFormatterClass = "logging.Formatter"
)

// loadOptions mirror the behaviour of the configparser module: case insensitive keys,
// indented continuation lines, no inline comments and values taken verbatim.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	PreserveSurroundedQuote:    true,
	AllowPythonMultilineValues: true,
}

// LoadINI parses an INI logging configuration read from reader. source is used in error messages.
func LoadINI(reader io.Reader, source string) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, source, err)
	}

	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, source, err)
	}

	missingSections := []string{}
	for _, name := range []string{loggersSection, handlersSection} {
		if !file.HasSection(name) {
			missingSections = append(missingSections, "["+name+"]")
		}
	}
	if len(missingSections) > 0 {
		return nil, fmt.Errorf("%w %q: missing required sections: %s", ErrParsing, source, strings.Join(missingSections, ", "))
	}

	config := newConfig(source)
	readFormatters(file, config)
	readHandlers(file, config)
	readLoggers(file, config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func declaredNames(file *ini.File, section string) []string {
	listSection, err := file.GetSection(section)
	if err != nil {
		return nil
	}

	return splitNames(rawValue(listSection, keysKey, ""))
}

// rawValue returns the uninterpolated value of key, or fallback if the key is missing.
func rawValue(section *ini.Section, key, fallback string) string {
	if !section.HasKey(key) {
		return fallback
	}

	return strings.TrimSpace(section.Key(key).Value())
}

func readFormatters(file *ini.File, config *Config) {
	for _, name := range declaredNames(file, formattersSection) {
		config.FormatterNames = append(config.FormatterNames, name)
		section, err := file.GetSection(formatterSectionPrefix + name)
		if err != nil {
			config.addProblem("formatter %q declared in [%s] has no [%s%s] section", name, formattersSection, formatterSectionPrefix, name)
			continue
		}

		if class := rawValue(section, classKey, defaultFormatterClass); class != defaultFormatterClass {
			config.addProblem("formatter %q: unsupported class %q", name, class)
		}

		config.Formatters[name] = &Formatter{
			Name:       name,
			Format:     rawValue(section, formatKey, DefaultFormat),
			DateFormat: rawValue(section, datefmtKey, ""),
			Style:      rawValue(section, styleKey, StylePercent),
		}
	}
}

func readHandlers(file *ini.File, config *Config) {
	for _, name := range declaredNames(file, handlersSection) {
		config.HandlerNames = append(config.HandlerNames, name)
		section, err := file.GetSection(handlerSectionPrefix + name)
		if err != nil {
			config.addProblem("handler %q declared in [%s] has no [%s%s] section", name, handlersSection, handlerSectionPrefix, name)
			continue
		}

		class := rawValue(section, classKey, "")
		if class == "" {
			config.addProblem("handler %q: missing %s", name, classKey)
		}

		if kwargs := rawValue(section, kwargsKey, "{}"); kwargs != "{}" {
			config.addProblem("handler %q: %s are not supported", name, kwargsKey)
		}

		args, err := ParseArgs(rawValue(section, argsKey, "()"))
		if err != nil {
			config.addProblem("handler %q: %s", name, err)
		}

		config.Handlers[name] = &Handler{
			Name:      name,
			Class:     class,
			Level:     rawValue(section, levelKey, ""),
			Formatter: rawValue(section, formatterKey, ""),
			Args:      args,
		}
	}
}

func readLoggers(file *ini.File, config *Config) {
	for _, name := range declaredNames(file, loggersSection) {
		config.LoggerNames = append(config.LoggerNames, name)
		section, err := file.GetSection(loggerSectionPrefix + name)
		if err != nil {
			config.addProblem("logger %q declared in [%s] has no [%s%s] section", name, loggersSection, loggerSectionPrefix, name)
			continue
		}

		logger := &Logger{
			Name:      name,
			Qualname:  rawValue(section, qualnameKey, ""),
			Level:     rawValue(section, levelKey, ""),
			Handlers:  splitNames(rawValue(section, handlersKey, "")),
			Propagate: true,
		}

		if name == RootLoggerName {
			logger.Qualname = RootLoggerName
		} else if value := rawValue(section, propagateKey, "1"); value != "" {
			propagate, err := strconv.ParseBool(value)
			if err != nil {
				config.addProblem("logger %q: invalid %s value %q", name, propagateKey, value)
			}
			logger.Propagate = propagate
		}

		config.Loggers[name] = logger
	}
}
