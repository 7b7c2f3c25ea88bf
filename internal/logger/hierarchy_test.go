// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/smhi/internal/logconf"
)

const basicConfiguration = `
[loggers]
keys=root,app,quiet

[handlers]
keys=out,err

[formatters]
keys=short

[formatter_short]
format=%(name)s:%(levelname)s:%(message)s

[handler_out]
class=StreamHandler
formatter=short
args=(sys.stdout,)

[handler_err]
class=StreamHandler
formatter=short
level=INFO
args=(sys.stderr,)

[logger_root]
handlers=out

[logger_app]
level=DEBUG
handlers=err
qualname=app
propagate=1

[logger_quiet]
level=DEBUG
handlers=err
qualname=quiet
propagate=0
`

type testStreams struct {
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestHierarchyWithStreams(t *testing.T, configuration string) (*Hierarchy, testStreams) {
	t.Helper()

	config, err := logconf.LoadINI(strings.NewReader(configuration), "test")
	require.NoError(t, err)

	streams := testStreams{stdout: new(bytes.Buffer), stderr: new(bytes.Buffer)}
	hierarchy, err := NewHierarchy(config, Streams{Stdout: streams.stdout, Stderr: streams.stderr})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, hierarchy.Close()) })
	return hierarchy, streams
}

func newTestHierarchy(t *testing.T, configuration string) *Hierarchy {
	t.Helper()
	hierarchy, _ := newTestHierarchyWithStreams(t, configuration)
	return hierarchy
}

func TestHierarchyDispatch(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		log            func(*Hierarchy)
		expectedStdout string
		expectedStderr string
	}{
		"child of a configured logger propagates to root": {
			log: func(h *Hierarchy) {
				h.Logger("app.client").Debug("fetching")
			},
			expectedStdout: "app.client:DEBUG:fetching\n",
		},
		"handler level filters records": {
			log: func(h *Hierarchy) {
				h.Logger("app").Info("done", "stations", 3)
			},
			expectedStdout: "app:INFO:done stations=3\n",
			expectedStderr: "app:INFO:done stations=3\n",
		},
		"root keeps warning when level is missing": {
			log: func(h *Hierarchy) {
				h.Logger("other").Info("silenced")
				h.Logger("other").Warn("kept")
			},
			expectedStdout: "other:WARNING:kept\n",
		},
		"propagation can be disabled": {
			log: func(h *Hierarchy) {
				h.Logger("quiet").Error("failure")
			},
			expectedStderr: "quiet:ERROR:failure\n",
		},
		"empty name is the root logger": {
			log: func(h *Hierarchy) {
				h.Logger("").Error("root")
			},
			expectedStdout: "root:ERROR:root\n",
		},
		"set level overrides the configured level": {
			log: func(h *Hierarchy) {
				logger := h.Logger("other")
				logger.SetLevel(TRACE)
				logger.WithName("other.child").Trace("traced")
			},
			expectedStdout: "other.child:TRACE:traced\n",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hierarchy, streams := newTestHierarchyWithStreams(t, basicConfiguration)
			test.log(hierarchy)

			assert.Equal(t, test.expectedStdout, streams.stdout.String())
			assert.Equal(t, test.expectedStderr, streams.stderr.String())
		})
	}
}

func TestHierarchyLastResort(t *testing.T) {
	t.Parallel()

	hierarchy, streams := newTestHierarchyWithStreams(t, `
[loggers]
keys=root

[handlers]
keys=

[logger_root]
level=NOTSET
handlers=
`)

	logger := hierarchy.Logger("app")
	logger.Info("lost")
	logger.Warn("station skipped", "station", "Lund")

	assert.Equal(t, "station skipped station=Lund\n", streams.stderr.String())
	assert.Empty(t, streams.stdout.String())
}

func TestHierarchyCallerInformation(t *testing.T) {
	t.Parallel()

	hierarchy, streams := newTestHierarchyWithStreams(t, `
[loggers]
keys=root

[handlers]
keys=out

[formatters]
keys=caller

[formatter_caller]
format=%(module)s %(filename)s %(lineno)d

[handler_out]
class=StreamHandler
formatter=caller
args=(sys.stdout,)

[logger_root]
level=DEBUG
handlers=out
`)

	hierarchy.Logger("app").Info("hello")

	fields := strings.Fields(streams.stdout.String())
	require.Len(t, fields, 3)
	assert.Equal(t, "hierarchy_test", fields[0])
	assert.Equal(t, "hierarchy_test.go", fields[1])
	assert.NotEqual(t, "0", fields[2])
}

func TestHierarchyFileHandlers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plainFile := filepath.Join(dir, "plain.log")
	rotatingFile := filepath.Join(dir, "rotating.log")
	require.NoError(t, os.WriteFile(plainFile, []byte("previous run\n"), 0o600))

	configuration := `
[loggers]
keys=root

[handlers]
keys=plain,rotating

[handler_plain]
class=FileHandler
args=('` + filepath.ToSlash(plainFile) + `', 'w')

[handler_rotating]
class=handlers.RotatingFileHandler
level=WARNING
args=('` + filepath.ToSlash(rotatingFile) + `', 'a', 1048576, 5)

[logger_root]
level=DEBUG
handlers=plain,rotating
`

	config, err := logconf.LoadINI(strings.NewReader(configuration), "test")
	require.NoError(t, err)
	hierarchy, err := NewHierarchy(config, Streams{})
	require.NoError(t, err)

	logger := hierarchy.Logger("app")
	logger.Debug("debug line")
	logger.Error("error line")
	require.NoError(t, hierarchy.Close())

	logger.Error("after close")

	plain, err := os.ReadFile(plainFile)
	require.NoError(t, err)
	assert.Equal(t, "debug line\nerror line\n", string(plain))

	rotating, err := os.ReadFile(rotatingFile)
	require.NoError(t, err)
	assert.Equal(t, "error line\n", string(rotating))
}

func TestNewHierarchyErrors(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		class string
		args  string
	}{
		"file handler": {
			class: "FileHandler",
			args:  ",",
		},
		"rotating file handler": {
			class: "handlers.RotatingFileHandler",
			args:  ", 'a', 1048576, 5",
		},
		"timed rotating file handler": {
			class: "handlers.TimedRotatingFileHandler",
			args:  ", 'midnight', 1, 3",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			missingDir := filepath.Join(t.TempDir(), "missing", "sub")
			configuration := `
[loggers]
keys=root

[handlers]
keys=file

[handler_file]
class=` + test.class + `
args=('` + filepath.ToSlash(filepath.Join(missingDir, "app.log")) + `'` + test.args + `)

[logger_root]
handlers=file
`

			config, err := logconf.LoadINI(strings.NewReader(configuration), "test")
			require.NoError(t, err)

			hierarchy, err := NewHierarchy(config, Streams{})
			assert.ErrorContains(t, err, `handler "file"`)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			assert.Nil(t, hierarchy)
			assert.NoDirExists(t, missingDir)
		})
	}
}
