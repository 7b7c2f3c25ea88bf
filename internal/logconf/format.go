// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"fmt"
	"strings"
)

const (
	// DefaultFormat is used by handlers without a formatter and by formatters without a format.
	DefaultFormat = "%(message)s"
	// StylePercent is the only supported placeholder style.
	StylePercent = "%"
)

// Record fields that can be referenced by a format string.
const (
	FieldAsctime         = "asctime"
	FieldCreated         = "created"
	FieldFilename        = "filename"
	FieldFuncName        = "funcName"
	FieldLevelName       = "levelname"
	FieldLevelNo         = "levelno"
	FieldLineNo          = "lineno"
	FieldMessage         = "message"
	FieldModule          = "module"
	FieldMsecs           = "msecs"
	FieldName            = "name"
	FieldPathname        = "pathname"
	FieldProcess         = "process"
	FieldRelativeCreated = "relativeCreated"
)

var knownFields = map[string]struct{}{
	FieldAsctime:         {},
	FieldCreated:         {},
	FieldFilename:        {},
	FieldFuncName:        {},
	FieldLevelName:       {},
	FieldLevelNo:         {},
	FieldLineNo:          {},
	FieldMessage:         {},
	FieldModule:          {},
	FieldMsecs:           {},
	FieldName:            {},
	FieldPathname:        {},
	FieldProcess:         {},
	FieldRelativeCreated: {},
}

// Segment is either a literal text or a placeholder of a parsed format string.
type Segment struct {
	Literal string
	// Field is empty for literal segments.
	Field string
	// Spec holds flags, width and precision, e.g. "-8" or ".3".
	Spec string
	// Verb is the conversion character: s, d, i, f, e, g, r, x, o.
	Verb byte
}

// ParseFormat splits a %-style format string like "%(asctime)s - %(message)s" in segments.
func ParseFormat(format string) ([]Segment, error) {
	segments := make([]Segment, 0)
	literal := new(strings.Builder)

	flushLiteral := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			literal.WriteByte(format[i])
			continue
		}

		if i+1 < len(format) && format[i+1] == '%' {
			literal.WriteByte('%')
			i++
			continue
		}

		if i+1 >= len(format) || format[i+1] != '(' {
			return nil, fmt.Errorf("format %q: placeholder at offset %d must be in the %%(name)s form", format, i)
		}

		closing := strings.IndexByte(format[i+2:], ')')
		if closing < 0 {
			return nil, fmt.Errorf("format %q: unterminated placeholder at offset %d", format, i)
		}
		field := format[i+2 : i+2+closing]
		if _, ok := knownFields[field]; !ok {
			return nil, fmt.Errorf("format %q: unknown field %q", format, field)
		}

		j := i + 2 + closing + 1
		specStart := j
		for j < len(format) && strings.IndexByte("#0- +.0123456789", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			return nil, fmt.Errorf("format %q: missing conversion for field %q", format, field)
		}
		verb := format[j]
		if strings.IndexByte("sdifFeEgGrxXo", verb) < 0 {
			return nil, fmt.Errorf("format %q: unsupported conversion %q for field %q", format, verb, field)
		}

		flushLiteral()
		segments = append(segments, Segment{Field: field, Spec: format[specStart:j], Verb: verb})
		i = j
	}

	flushLiteral()
	return segments, nil
}
