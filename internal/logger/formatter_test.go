// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/smhi/internal/logconf"
)

func testRecord() *Record {
	return &Record{
		Time:     time.Date(2024, time.January, 2, 3, 4, 5, 6_000_000, time.UTC),
		Name:     "app",
		Level:    logconf.LevelDebug,
		Msg:      "hello",
		Pathname: "/src/app/main.go",
		FuncName: "run",
		Line:     10,
		PID:      42,
	}
}

func TestFormatter(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		format     string
		dateFormat string
		record     func() *Record
		expected   string
	}{
		"complex format with literal date format": {
			format:     "%(asctime)s - %(name)s - %(levelname)s - %(module)s : %(lineno)d - %(message)s",
			dateFormat: "T",
			record:     testRecord,
			expected:   "T - app - DEBUG - main : 10 - hello",
		},
		"default time format has milliseconds": {
			format:   "%(asctime)s %(message)s",
			record:   testRecord,
			expected: "2024-01-02 03:04:05,006 hello",
		},
		"strftime date format": {
			format:     "%(asctime)s",
			dateFormat: "%Y-%m-%dT%H:%M:%S",
			record:     testRecord,
			expected:   "2024-01-02T03:04:05",
		},
		"empty format renders the message": {
			record:   testRecord,
			expected: "hello",
		},
		"padding and numeric conversions": {
			format:   "[%(levelname)-8s] %(levelno)d %(lineno)03d %(msecs)03d %(process)d",
			record:   testRecord,
			expected: "[DEBUG   ] 10 010 006 42",
		},
		"created with precision": {
			format:   "%(created).3f",
			record:   testRecord,
			expected: "1704164645.006",
		},
		"file and function fields": {
			format:   "%(pathname)s %(filename)s %(funcName)s %(name)r",
			record:   testRecord,
			expected: "/src/app/main.go main.go run 'app'",
		},
		"warning level name": {
			format: "%(levelname)s %(levelno)s",
			record: func() *Record {
				record := testRecord()
				record.Level = logconf.LevelWarning
				return record
			},
			expected: "WARNING 30",
		},
		"message with key value pairs": {
			format: "%(message)s",
			record: func() *Record {
				record := testRecord()
				record.Msg = "station"
				record.Args = []interface{}{"name", "Lund Sol", "temperature", 12.5, "skipped"}
				return record
			},
			expected: `station name="Lund Sol" temperature=12.5 EXTRA_VALUE_AT_END=skipped`,
		},
		"escaped percent": {
			format:   "100%% %(message)s",
			record:   testRecord,
			expected: "100% hello",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			formatter, err := NewFormatter(test.format, test.dateFormat, logconf.StylePercent)
			require.NoError(t, err)
			assert.Equal(t, test.expected, formatter.Format(test.record()))
		})
	}
}

func TestFormatterErrors(t *testing.T) {
	t.Parallel()

	_, err := NewFormatter("%(message)s", "", "{")
	assert.ErrorContains(t, err, `unsupported style "{"`)

	_, err = NewFormatter("%(thread)d", "", "")
	assert.ErrorContains(t, err, `unknown field "thread"`)
}

func TestRecordModule(t *testing.T) {
	t.Parallel()

	record := &Record{}
	assert.Empty(t, record.Filename())
	assert.Empty(t, record.Module())

	record.Pathname = "/src/internal/smhi/client.go"
	assert.Equal(t, "client.go", record.Filename())
	assert.Equal(t, "client", record.Module())
}
