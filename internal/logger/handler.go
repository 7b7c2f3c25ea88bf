// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mia-platform/smhi/internal/logconf"
)

const (
	megabyte = 1024 * 1024
	// timedMaxSize disables the size based rotation of timed handlers, in megabytes.
	timedMaxSize = 1024 * 1024
	day          = 24 * time.Hour
)

// Streams are the writers used by stream handlers.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Handler formats records and writes them to its destination.
type Handler struct {
	name      string
	level     logconf.Level
	formatter *Formatter

	lock   sync.Mutex
	writer io.Writer
	closer io.Closer
}

// NewHandler builds the handler described by definition.
func NewHandler(definition *logconf.Handler, formatter *Formatter, streams Streams) (*Handler, error) {
	level, err := logconf.ParseLevel(definition.Level)
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", definition.Name, err)
	}

	sink, err := definition.Sink()
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", definition.Name, err)
	}

	if formatter == nil {
		formatter, _ = NewFormatter(logconf.DefaultFormat, "", logconf.StylePercent)
	}

	handler := &Handler{
		name:      definition.Name,
		level:     level,
		formatter: formatter,
	}

	switch sink.Kind {
	case logconf.SinkNull:
	case logconf.SinkStream:
		handler.writer = streams.Stderr
		if sink.Stream == logconf.StreamStdout {
			handler.writer = streams.Stdout
		}
	case logconf.SinkFile:
		err = handler.openFile(sink.Filename, sink.Mode)
	case logconf.SinkRotatingFile:
		if sink.MaxBytes == 0 || sink.BackupCount == 0 {
			err = handler.openFile(sink.Filename, sink.Mode)
			break
		}
		if err = checkFile(sink.Filename, sink.Mode); err != nil {
			break
		}
		rotating := &lumberjack.Logger{
			Filename:   sink.Filename,
			MaxSize:    int((sink.MaxBytes + megabyte - 1) / megabyte),
			MaxBackups: sink.BackupCount,
		}
		handler.writer = rotating
		handler.closer = rotating
	case logconf.SinkTimedFile:
		if err = checkFile(sink.Filename, sink.Mode); err != nil {
			break
		}
		rotating := &lumberjack.Logger{
			Filename:   sink.Filename,
			MaxSize:    timedMaxSize,
			MaxBackups: sink.BackupCount,
		}
		handler.writer = newTimedWriter(rotating, sink.When, sink.Interval, time.Now)
		handler.closer = rotating
	default:
		err = fmt.Errorf("unsupported sink %q", sink.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", definition.Name, err)
	}
	return handler, nil
}

func openFlags(mode string) int {
	if mode == logconf.ModeTruncate {
		return os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	return os.O_CREATE | os.O_WRONLY | os.O_APPEND
}

func (h *Handler) openFile(filename, mode string) error {
	file, err := os.OpenFile(filename, openFlags(mode), 0o644)
	if err != nil {
		return err
	}

	h.writer = file
	h.closer = file
	return nil
}

// checkFile opens and closes filename, so a rotating writer fails now instead of
// creating missing directories on its first write.
func checkFile(filename, mode string) error {
	file, err := os.OpenFile(filename, openFlags(mode), 0o644)
	if err != nil {
		return err
	}
	return file.Close()
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return h.name
}

// Handle writes the record if its level is at least the handler level.
func (h *Handler) Handle(record *Record) error {
	if record.Level < h.level {
		return nil
	}

	line := h.formatter.Format(record) + "\n"

	h.lock.Lock()
	defer h.lock.Unlock()
	if h.writer == nil {
		return nil
	}
	_, err := io.WriteString(h.writer, line)
	return err
}

// Close releases the files opened by the handler. Stream handlers are left open.
func (h *Handler) Close() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.writer = nil
	if h.closer == nil {
		return nil
	}

	err := h.closer.Close()
	h.closer = nil
	return err
}

// rotator is the subset of lumberjack.Logger used by timedWriter.
type rotator interface {
	io.Writer
	Rotate() error
}

// timedWriter rotates the underlying file every time a rollover boundary is crossed.
type timedWriter struct {
	file     rotator
	when     string
	interval int
	now      func() time.Time
	next     time.Time
}

func newTimedWriter(file rotator, when string, interval int, now func() time.Time) *timedWriter {
	writer := &timedWriter{
		file:     file,
		when:     when,
		interval: max(interval, 1),
		now:      now,
	}
	writer.next = nextRollover(now(), writer.when, writer.interval)
	return writer
}

func (w *timedWriter) Write(p []byte) (int, error) {
	now := w.now()
	if !now.Before(w.next) {
		if err := w.file.Rotate(); err != nil {
			return 0, err
		}
		w.next = nextRollover(now, w.when, w.interval)
	}

	return w.file.Write(p)
}

// nextRollover returns the first rollover time after t. Day based units roll at midnight;
// W0 to W6 roll at the midnight starting the given weekday, Monday being W0.
func nextRollover(t time.Time, when string, interval int) time.Time {
	switch when {
	case "S":
		return t.Add(time.Duration(interval) * time.Second)
	case "M":
		return t.Add(time.Duration(interval) * time.Minute)
	case "H":
		return t.Add(time.Duration(interval) * time.Hour)
	case "D":
		return t.Add(time.Duration(interval) * day)
	}

	year, month, today := t.Date()
	if when == "MIDNIGHT" {
		return time.Date(year, month, today+interval, 0, 0, 0, 0, t.Location())
	}

	weekday := int(when[1] - '0')
	current := (int(t.Weekday()) + 6) % 7
	wait := (weekday - current + 7) % 7
	if wait == 0 {
		wait = 7
	}
	return time.Date(year, month, today+wait+7*(interval-1), 0, 0, 0, 0, t.Location())
}
