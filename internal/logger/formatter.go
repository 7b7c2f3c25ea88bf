// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/mia-platform/smhi/internal/logconf"
)

const (
	// defaultTimeLayout renders the date, the time and the milliseconds after a comma.
	defaultTimeLayout = "2006-01-02 15:04:05,000"
)

// Formatter renders a Record using a %-style format string.
type Formatter struct {
	segments   []logconf.Segment
	dateFormat string
	usesTime   bool
}

// NewFormatter parses format and returns a Formatter. An empty format renders only the message,
// an empty dateFormat uses the default timestamp with milliseconds.
func NewFormatter(format, dateFormat, style string) (*Formatter, error) {
	if style != "" && style != logconf.StylePercent {
		return nil, fmt.Errorf("unsupported style %q", style)
	}
	if format == "" {
		format = logconf.DefaultFormat
	}

	segments, err := logconf.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	formatter := &Formatter{segments: segments, dateFormat: dateFormat}
	for _, segment := range segments {
		if segment.Field == logconf.FieldAsctime {
			formatter.usesTime = true
		}
	}
	return formatter, nil
}

// FormatTime renders t with the configured date format.
func (f *Formatter) FormatTime(t time.Time) string {
	if f.dateFormat == "" {
		return t.Format(defaultTimeLayout)
	}
	return strftime.Format(f.dateFormat, t)
}

// Format renders the record without a trailing new line.
func (f *Formatter) Format(record *Record) string {
	builder := new(strings.Builder)
	var asctime string
	if f.usesTime {
		asctime = f.FormatTime(record.Time)
	}

	for _, segment := range f.segments {
		if segment.Field == "" {
			builder.WriteString(segment.Literal)
			continue
		}

		var value interface{}
		switch segment.Field {
		case logconf.FieldAsctime:
			value = asctime
		case logconf.FieldCreated:
			value = float64(record.Time.UnixNano()) / float64(time.Second)
		case logconf.FieldFilename:
			value = record.Filename()
		case logconf.FieldFuncName:
			value = record.FuncName
		case logconf.FieldLevelName:
			value = record.Level.String()
		case logconf.FieldLevelNo:
			value = int(record.Level)
		case logconf.FieldLineNo:
			value = record.Line
		case logconf.FieldMessage:
			value = record.Message()
		case logconf.FieldModule:
			value = record.Module()
		case logconf.FieldMsecs:
			value = float64(record.Time.Nanosecond()) / float64(time.Millisecond)
		case logconf.FieldName:
			value = record.Name
		case logconf.FieldPathname:
			value = record.Pathname
		case logconf.FieldProcess:
			value = record.PID
		case logconf.FieldRelativeCreated:
			value = float64(record.Time.Sub(startTime)) / float64(time.Millisecond)
		}

		builder.WriteString(formatValue(segment.Spec, segment.Verb, value))
	}

	return builder.String()
}

// formatValue applies a printf conversion the way the configuration language does:
// integer conversions truncate floats, float conversions accept integers and
// strings are always printed with %s semantics when the conversion is numeric.
func formatValue(spec string, verb byte, value interface{}) string {
	switch verb {
	case 'd', 'i':
		switch v := value.(type) {
		case int:
			return fmt.Sprintf("%"+spec+"d", v)
		case float64:
			return fmt.Sprintf("%"+spec+"d", int64(v))
		}
	case 'x', 'X', 'o':
		switch v := value.(type) {
		case int:
			return fmt.Sprintf("%"+spec+string(verb), v)
		case float64:
			return fmt.Sprintf("%"+spec+string(verb), int64(v))
		}
	case 'f', 'F', 'e', 'E', 'g', 'G':
		goVerb := verb
		if goVerb == 'F' {
			goVerb = 'f'
		}
		switch v := value.(type) {
		case int:
			return fmt.Sprintf("%"+spec+string(goVerb), float64(v))
		case float64:
			return fmt.Sprintf("%"+spec+string(goVerb), v)
		}
	case 'r':
		if v, ok := value.(string); ok {
			return fmt.Sprintf("%"+spec+"s", repr(v))
		}
	}

	if v, ok := value.(float64); ok {
		return fmt.Sprintf("%"+spec+"s", strconv.FormatFloat(v, 'f', -1, 64))
	}
	return fmt.Sprintf("%"+spec+"v", value)
}

// repr quotes a string with single quotes.
func repr(value string) string {
	quoted := strconv.Quote(value)
	inner := strings.ReplaceAll(quoted[1:len(quoted)-1], `\"`, `"`)
	return "'" + strings.ReplaceAll(inner, "'", `\'`) + "'"
}
