// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/mia-platform/smhi/internal/logconf"
)

// startTime is the reference for the relativeCreated field.
var startTime = time.Now()

// Record is a single log event, with the call site that produced it.
type Record struct {
	Time     time.Time
	Name     string
	Level    logconf.Level
	Msg      string
	Args     []interface{}
	Pathname string
	FuncName string
	Line     int
	PID      int
}

// newRecord captures the call site skip frames up the stack, newRecord being frame 0.
func newRecord(name string, level logconf.Level, msg string, args []interface{}, skip int) *Record {
	record := &Record{
		Time:  time.Now(),
		Name:  name,
		Level: level,
		Msg:   msg,
		Args:  args,
		PID:   os.Getpid(),
	}

	if pc, file, line, ok := runtime.Caller(skip); ok {
		record.Pathname = file
		record.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			record.FuncName = fn.Name()[strings.LastIndexByte(fn.Name(), '.')+1:]
		}
	}

	return record
}

// Filename returns the base name of the source file.
func (r *Record) Filename() string {
	if r.Pathname == "" {
		return ""
	}
	return filepath.Base(r.Pathname)
}

// Module returns the source file name without its extension.
func (r *Record) Module() string {
	filename := r.Filename()
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Message renders the message followed by its key/value pairs.
func (r *Record) Message() string {
	if len(r.Args) == 0 {
		return r.Msg
	}

	builder := new(strings.Builder)
	builder.WriteString(r.Msg)
	for i := 0; i < len(r.Args); i += 2 {
		builder.WriteByte(' ')
		if i+1 == len(r.Args) {
			builder.WriteString("EXTRA_VALUE_AT_END=")
			builder.WriteString(quoteValue(r.Args[i]))
			break
		}
		fmt.Fprintf(builder, "%v=%s", r.Args[i], quoteValue(r.Args[i+1]))
	}
	return builder.String()
}

func quoteValue(value interface{}) string {
	var text string
	switch v := value.(type) {
	case error:
		text = v.Error()
	case fmt.Stringer:
		text = v.String()
	default:
		text = fmt.Sprint(v)
	}

	if text == "" || strings.ContainsAny(text, " \t\n\"=") {
		return strconv.Quote(text)
	}
	return text
}
