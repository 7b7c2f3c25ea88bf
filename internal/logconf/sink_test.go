// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerSink(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		handler       *Handler
		expectedSink  *Sink
		expectedError string
	}{
		"stream defaults to stderr": {
			handler:      &Handler{Class: "StreamHandler"},
			expectedSink: &Sink{Kind: SinkStream, Stream: StreamStderr},
		},
		"stream none is stderr": {
			handler:      &Handler{Class: "logging.StreamHandler", Args: []Arg{{Kind: ArgNone}}},
			expectedSink: &Sink{Kind: SinkStream, Stream: StreamStderr},
		},
		"dict style stream reference": {
			handler:      &Handler{Class: "StreamHandler", Args: []Arg{SymbolArg("ext://sys.stdout")}},
			expectedSink: &Sink{Kind: SinkStream, Stream: StreamStdout},
		},
		"unsupported stream": {
			handler:       &Handler{Class: "StreamHandler", Args: []Arg{SymbolArg("sys.stdin")}},
			expectedError: "unsupported stream sys.stdin",
		},
		"too many stream arguments": {
			handler:       &Handler{Class: "StreamHandler", Args: []Arg{SymbolArg("sys.stdout"), SymbolArg("sys.stderr")}},
			expectedError: "at most 1 argument",
		},
		"file handler": {
			handler:      &Handler{Class: "FileHandler", Args: []Arg{StringArg("app.log"), StringArg("w")}},
			expectedSink: &Sink{Kind: SinkFile, Filename: "app.log", Mode: ModeTruncate},
		},
		"file handler without filename": {
			handler:       &Handler{Class: "FileHandler"},
			expectedError: "from 1 to 2 arguments",
		},
		"file handler with invalid mode": {
			handler:       &Handler{Class: "FileHandler", Args: []Arg{StringArg("app.log"), StringArg("r")}},
			expectedError: "mode must be 'a' or 'w'",
		},
		"rotating file handler": {
			handler: &Handler{
				Class: "handlers.RotatingFileHandler",
				Args:  []Arg{StringArg("app.log"), StringArg("a"), IntArg(2048), IntArg(3)},
			},
			expectedSink: &Sink{Kind: SinkRotatingFile, Filename: "app.log", Mode: ModeAppend, MaxBytes: 2048, BackupCount: 3},
		},
		"rotating file handler with negative size": {
			handler: &Handler{
				Class: "handlers.RotatingFileHandler",
				Args:  []Arg{StringArg("app.log"), StringArg("a"), IntArg(-1)},
			},
			expectedError: "maxBytes must be a non negative integer",
		},
		"timed rotating file handler defaults": {
			handler:      &Handler{Class: "logging.handlers.TimedRotatingFileHandler", Args: []Arg{StringArg("app.log")}},
			expectedSink: &Sink{Kind: SinkTimedFile, Filename: "app.log", Mode: ModeAppend, When: "H", Interval: 1},
		},
		"timed rotating file handler with weekday": {
			handler: &Handler{
				Class: "handlers.TimedRotatingFileHandler",
				Args:  []Arg{StringArg("app.log"), StringArg("w6"), IntArg(1), IntArg(4)},
			},
			expectedSink: &Sink{Kind: SinkTimedFile, Filename: "app.log", Mode: ModeAppend, When: "W6", Interval: 1, BackupCount: 4},
		},
		"timed rotating file handler with invalid unit": {
			handler:       &Handler{Class: "handlers.TimedRotatingFileHandler", Args: []Arg{StringArg("app.log"), StringArg("fortnight")}},
			expectedError: "invalid rollover unit",
		},
		"null handler": {
			handler:      &Handler{Class: "NullHandler"},
			expectedSink: &Sink{Kind: SinkNull},
		},
		"unknown class": {
			handler:       &Handler{Class: "logging.handlers.SysLogHandler"},
			expectedError: "unknown handler class",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			sink, err := test.handler.Sink()
			if test.expectedError != "" {
				assert.ErrorContains(t, err, test.expectedError)
				assert.Nil(t, sink)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expectedSink, sink)
		})
	}
}
