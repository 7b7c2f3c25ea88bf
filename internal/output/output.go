// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Writer renders values to its destination.
type Writer interface {
	Write(value any) error
}

// Status is the outcome of a connection check.
type Status struct {
	URL        string `json:"url" yaml:"url"`
	StatusCode int    `json:"statusCode" yaml:"statusCode"`
}

// Formats returns the supported format names.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// New returns a Writer for format writing to w.
func New(format string, w io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatText:
		return &textWriter{writer: w}, nil
	case FormatJSON:
		return &jsonWriter{writer: w}, nil
	case FormatYAML:
		return &yamlWriter{writer: w}, nil
	default:
		return nil, fmt.Errorf("%w %q: valid values are %s", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
}

var _ Writer = &jsonWriter{}

type jsonWriter struct {
	writer io.Writer

	lock sync.Mutex
}

func (w *jsonWriter) Write(value any) error {
	builder := new(strings.Builder)
	encoder := json.NewEncoder(builder)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return err
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	_, err := io.WriteString(w.writer, builder.String())
	return err
}

var _ Writer = &yamlWriter{}

type yamlWriter struct {
	writer io.Writer

	lock sync.Mutex
}

func (w *yamlWriter) Write(value any) error {
	builder := new(strings.Builder)
	encoder := yaml.NewEncoder(builder)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	_, err := io.WriteString(w.writer, builder.String())
	return err
}
