// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		format           string
		expectedSegments []Segment
		expectedError    string
	}{
		"complex formatter": {
			format: "%(asctime)s - %(name)s - %(levelname)s - %(module)s : %(lineno)d - %(message)s",
			expectedSegments: []Segment{
				{Field: FieldAsctime, Verb: 's'},
				{Literal: " - "},
				{Field: FieldName, Verb: 's'},
				{Literal: " - "},
				{Field: FieldLevelName, Verb: 's'},
				{Literal: " - "},
				{Field: FieldModule, Verb: 's'},
				{Literal: " : "},
				{Field: FieldLineNo, Verb: 'd'},
				{Literal: " - "},
				{Field: FieldMessage, Verb: 's'},
			},
		},
		"width, precision and escaped percent": {
			format: "[%(levelname)-8s] %(created).3f 100%% %(message)s",
			expectedSegments: []Segment{
				{Literal: "["},
				{Field: FieldLevelName, Spec: "-8", Verb: 's'},
				{Literal: "] "},
				{Field: FieldCreated, Spec: ".3", Verb: 'f'},
				{Literal: " 100% "},
				{Field: FieldMessage, Verb: 's'},
			},
		},
		"only literal": {
			format:           "plain text",
			expectedSegments: []Segment{{Literal: "plain text"}},
		},
		"positional placeholder": {
			format:        "%s",
			expectedError: "must be in the %(name)s form",
		},
		"unterminated placeholder": {
			format:        "%(message",
			expectedError: "unterminated placeholder",
		},
		"unknown field": {
			format:        "%(thread)d",
			expectedError: `unknown field "thread"`,
		},
		"missing conversion": {
			format:        "%(message)",
			expectedError: `missing conversion for field "message"`,
		},
		"unsupported conversion": {
			format:        "%(message)q",
			expectedError: "unsupported conversion",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			segments, err := ParseFormat(test.format)
			if test.expectedError != "" {
				assert.ErrorContains(t, err, test.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expectedSegments, segments)
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		input         string
		expectedLevel Level
		expectedError bool
	}{
		"empty":         {input: "", expectedLevel: LevelNotSet},
		"debug":         {input: "DEBUG", expectedLevel: LevelDebug},
		"lower case":    {input: "info", expectedLevel: LevelInfo},
		"warn alias":    {input: "WARN", expectedLevel: LevelWarning},
		"warning":       {input: "WARNING", expectedLevel: LevelWarning},
		"fatal alias":   {input: "FATAL", expectedLevel: LevelCritical},
		"numeric":       {input: "40", expectedLevel: LevelError},
		"trace":         {input: " TRACE ", expectedLevel: LevelTrace},
		"unknown name":  {input: "LOUD", expectedError: true},
		"unknown value": {input: "15", expectedError: true},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(test.input)
			if test.expectedError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expectedLevel, level)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NOTSET", LevelNotSet.String())
	assert.Equal(t, "WARNING", LevelWarning.String())
	assert.Equal(t, "CRITICAL", LevelCritical.String())
	assert.Equal(t, "Level 15", Level(15).String())
}
