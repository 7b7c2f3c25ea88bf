// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mia-platform/smhi/internal/logconf"
	"github.com/mia-platform/smhi/internal/smhi"
)

var _ Writer = &textWriter{}

type textWriter struct {
	writer io.Writer

	lock sync.Mutex
}

func (w *textWriter) Write(value any) error {
	builder := new(strings.Builder)

	switch v := value.(type) {
	case []smhi.Parameter:
		for _, parameter := range v {
			fmt.Fprintf(builder, "%3s, %s (%s)\n", parameter.Key, parameter.Title, parameter.Summary)
		}
	case []smhi.Station:
		for _, station := range v {
			fmt.Fprintf(builder, "%s, %s (updated %s)\n", station.Key, station.Name, station.UpdatedAt().Format("2006-01-02 15:04:05"))
		}
	case *smhi.Extremes:
		fmt.Fprintf(builder, "Highest temperature: %s, %s degrees\n", v.Highest.Name, formatTemperature(v.Highest.Temp))
		fmt.Fprintf(builder, "Lowest temperature: %s, %s degrees\n", v.Lowest.Name, formatTemperature(v.Lowest.Temp))
	case Status:
		fmt.Fprintf(builder, "%d\n", v.StatusCode)
	case *logconf.Config:
		writeConfig(builder, v)
	case fmt.Stringer:
		builder.WriteString(v.String() + "\n")
	default:
		fmt.Fprintf(builder, "%v\n", v)
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	_, err := io.WriteString(w.writer, builder.String())
	return err
}

// formatTemperature prints one decimal digit and infinities as inf and -inf.
func formatTemperature(temp smhi.Temperature) string {
	value := float64(temp)
	switch {
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(value, 'f', 1, 64)
	}
}

func writeConfig(builder *strings.Builder, config *logconf.Config) {
	builder.WriteString("Source: " + config.Source + "\n")

	builder.WriteString("Loggers:\n")
	for _, name := range config.LoggerNames {
		logger := config.Loggers[name]
		fmt.Fprintf(builder, "\t%s:\n", name)
		fmt.Fprintf(builder, "\t\tQualname: %s\n", logger.Qualname)
		fmt.Fprintf(builder, "\t\tLevel: %s\n", valueOrNotSet(logger.Level))
		fmt.Fprintf(builder, "\t\tHandlers: %s\n", strings.Join(logger.Handlers, ", "))
		fmt.Fprintf(builder, "\t\tPropagate: %t\n", logger.Propagate)
	}

	builder.WriteString("Handlers:\n")
	for _, name := range config.HandlerNames {
		handler := config.Handlers[name]
		fmt.Fprintf(builder, "\t%s:\n", name)
		fmt.Fprintf(builder, "\t\tClass: %s\n", handler.Class)
		fmt.Fprintf(builder, "\t\tLevel: %s\n", valueOrNotSet(handler.Level))
		fmt.Fprintf(builder, "\t\tFormatter: %s\n", handler.Formatter)
		fmt.Fprintf(builder, "\t\tArgs: %s\n", formatArgs(handler.Args))
		if sink, err := handler.Sink(); err == nil {
			fmt.Fprintf(builder, "\t\tDestination: %s\n", formatSink(sink))
		}
	}

	builder.WriteString("Formatters:\n")
	for _, name := range config.FormatterNames {
		formatter := config.Formatters[name]
		fmt.Fprintf(builder, "\t%s:\n", name)
		fmt.Fprintf(builder, "\t\tFormat: %s\n", formatter.Format)
		if formatter.DateFormat != "" {
			fmt.Fprintf(builder, "\t\tDate format: %s\n", formatter.DateFormat)
		}
	}
}

func valueOrNotSet(level string) string {
	if level == "" {
		return logconf.LevelNotSet.String()
	}
	return level
}

// formatArgs renders args as a tuple literal.
func formatArgs(args []logconf.Arg) string {
	values := make([]string, 0, len(args))
	for _, arg := range args {
		values = append(values, arg.String())
	}

	if len(values) == 1 {
		return "(" + values[0] + ",)"
	}
	return "(" + strings.Join(values, ", ") + ")"
}

func formatSink(sink *logconf.Sink) string {
	switch sink.Kind {
	case logconf.SinkStream:
		return "stream " + sink.Stream
	case logconf.SinkFile:
		return fmt.Sprintf("file %s (mode %s)", sink.Filename, sink.Mode)
	case logconf.SinkRotatingFile:
		return fmt.Sprintf("file %s rotating every %d bytes, %d backups", sink.Filename, sink.MaxBytes, sink.BackupCount)
	case logconf.SinkTimedFile:
		return fmt.Sprintf("file %s rotating every %d %s, %d backups", sink.Filename, sink.Interval, sink.When, sink.BackupCount)
	default:
		return string(sink.Kind)
	}
}
