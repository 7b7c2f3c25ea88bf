// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"fmt"
	"strings"
)

// SinkKind identifies the destination type of a handler.
type SinkKind string

const (
	SinkStream       SinkKind = "stream"
	SinkFile         SinkKind = "file"
	SinkRotatingFile SinkKind = "rotating-file"
	SinkTimedFile    SinkKind = "timed-rotating-file"
	SinkNull         SinkKind = "null"

	StreamStdout = "stdout"
	StreamStderr = "stderr"

	ModeAppend   = "a"
	ModeTruncate = "w"

	defaultWhen = "H"
)

// handlerClasses maps every accepted class name to the sink it creates.
var handlerClasses = map[string]SinkKind{
	"StreamHandler":                             SinkStream,
	"logging.StreamHandler":                     SinkStream,
	"FileHandler":                               SinkFile,
	"logging.FileHandler":                       SinkFile,
	"handlers.RotatingFileHandler":              SinkRotatingFile,
	"logging.handlers.RotatingFileHandler":      SinkRotatingFile,
	"handlers.TimedRotatingFileHandler":         SinkTimedFile,
	"logging.handlers.TimedRotatingFileHandler": SinkTimedFile,
	"NullHandler":                               SinkNull,
	"logging.NullHandler":                       SinkNull,
}

// streamSymbols maps the stream references accepted in args to a stream name.
var streamSymbols = map[string]string{
	"sys.stdout":       StreamStdout,
	"sys.stderr":       StreamStderr,
	"ext://sys.stdout": StreamStdout,
	"ext://sys.stderr": StreamStderr,
}

// Sink is the decoded destination of a handler.
type Sink struct {
	Kind        SinkKind `json:"kind" yaml:"kind"`
	Stream      string   `json:"stream,omitempty" yaml:"stream,omitempty"`
	Filename    string   `json:"filename,omitempty" yaml:"filename,omitempty"`
	Mode        string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	MaxBytes    int64    `json:"maxBytes,omitempty" yaml:"maxBytes,omitempty"`
	BackupCount int      `json:"backupCount,omitempty" yaml:"backupCount,omitempty"`
	When        string   `json:"when,omitempty" yaml:"when,omitempty"`
	Interval    int      `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// SinkKindForClass returns the sink created by the handler class name.
func SinkKindForClass(class string) (SinkKind, bool) {
	kind, ok := handlerClasses[strings.TrimSpace(class)]
	return kind, ok
}

// Sink decodes the handler class and args into its destination.
func (h *Handler) Sink() (*Sink, error) {
	kind, ok := SinkKindForClass(h.Class)
	if !ok {
		return nil, fmt.Errorf("unknown handler class %q", h.Class)
	}

	switch kind {
	case SinkStream:
		return streamSink(h.Args)
	case SinkFile, SinkRotatingFile:
		return fileSink(kind, h.Args)
	case SinkTimedFile:
		return timedFileSink(h.Args)
	default:
		return &Sink{Kind: SinkNull}, nil
	}
}

func streamSink(args []Arg) (*Sink, error) {
	switch len(args) {
	case 0:
		return &Sink{Kind: SinkStream, Stream: StreamStderr}, nil
	case 1:
		arg := args[0]
		if arg.Kind == ArgNone {
			return &Sink{Kind: SinkStream, Stream: StreamStderr}, nil
		}
		if arg.Kind == ArgSymbol || arg.Kind == ArgString {
			if stream, ok := streamSymbols[arg.Str]; ok {
				return &Sink{Kind: SinkStream, Stream: stream}, nil
			}
		}
		return nil, fmt.Errorf("unsupported stream %s", arg)
	default:
		return nil, fmt.Errorf("stream handler accepts at most 1 argument, got %d", len(args))
	}
}

func fileSink(kind SinkKind, args []Arg) (*Sink, error) {
	maxArgs := 2
	if kind == SinkRotatingFile {
		maxArgs = 4
	}

	if len(args) == 0 || len(args) > maxArgs {
		return nil, fmt.Errorf("file handler accepts from 1 to %d arguments, got %d", maxArgs, len(args))
	}

	sink := &Sink{Kind: kind, Mode: ModeAppend}
	if args[0].Kind != ArgString || args[0].Str == "" {
		return nil, fmt.Errorf("filename must be a non empty string, got %s", args[0])
	}
	sink.Filename = args[0].Str

	if len(args) > 1 {
		if args[1].Kind != ArgString || (args[1].Str != ModeAppend && args[1].Str != ModeTruncate) {
			return nil, fmt.Errorf("mode must be 'a' or 'w', got %s", args[1])
		}
		sink.Mode = args[1].Str
	}

	if len(args) > 2 {
		if args[2].Kind != ArgInt || args[2].Int < 0 {
			return nil, fmt.Errorf("maxBytes must be a non negative integer, got %s", args[2])
		}
		sink.MaxBytes = args[2].Int
	}

	if len(args) > 3 {
		if args[3].Kind != ArgInt || args[3].Int < 0 {
			return nil, fmt.Errorf("backupCount must be a non negative integer, got %s", args[3])
		}
		sink.BackupCount = int(args[3].Int)
	}

	return sink, nil
}

// validWhen lists the rollover units of a timed rotating file handler.
var validWhen = map[string]struct{}{
	"S": {}, "M": {}, "H": {}, "D": {}, "MIDNIGHT": {},
	"W0": {}, "W1": {}, "W2": {}, "W3": {}, "W4": {}, "W5": {}, "W6": {},
}

func timedFileSink(args []Arg) (*Sink, error) {
	if len(args) == 0 || len(args) > 4 {
		return nil, fmt.Errorf("timed rotating file handler accepts from 1 to 4 arguments, got %d", len(args))
	}

	if args[0].Kind != ArgString || args[0].Str == "" {
		return nil, fmt.Errorf("filename must be a non empty string, got %s", args[0])
	}
	sink := &Sink{Kind: SinkTimedFile, Filename: args[0].Str, Mode: ModeAppend, When: defaultWhen, Interval: 1}

	if len(args) > 1 {
		when := strings.ToUpper(args[1].Str)
		if _, ok := validWhen[when]; args[1].Kind != ArgString || !ok {
			return nil, fmt.Errorf("invalid rollover unit %s", args[1])
		}
		sink.When = when
	}

	if len(args) > 2 {
		if args[2].Kind != ArgInt || args[2].Int < 1 {
			return nil, fmt.Errorf("interval must be a positive integer, got %s", args[2])
		}
		sink.Interval = int(args[2].Int)
	}

	if len(args) > 3 {
		if args[3].Kind != ArgInt || args[3].Int < 0 {
			return nil, fmt.Errorf("backupCount must be a non negative integer, got %s", args[3])
		}
		sink.BackupCount = int(args[3].Int)
	}

	return sink, nil
}
