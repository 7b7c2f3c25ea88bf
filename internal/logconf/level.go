// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the numeric severity used in configuration files.
type Level int

const (
	LevelNotSet   Level = 0
	LevelTrace    Level = 5
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
)

var levelNames = map[string]Level{
	"NOTSET":   LevelNotSet,
	"TRACE":    LevelTrace,
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARN":     LevelWarning,
	"WARNING":  LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelCritical,
	"FATAL":    LevelCritical,
}

// ParseLevel converts a level name or its numeric value to a Level.
// An empty string is NOTSET.
func ParseLevel(name string) (Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LevelNotSet, nil
	}

	if level, ok := levelNames[strings.ToUpper(name)]; ok {
		return level, nil
	}

	if number, err := strconv.Atoi(name); err == nil {
		for _, level := range levelNames {
			if int(level) == number {
				return level, nil
			}
		}
	}

	return LevelNotSet, fmt.Errorf("unknown level %q", name)
}

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LevelNotSet:
		return "NOTSET"
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "Level " + strconv.Itoa(int(l))
	}
}
