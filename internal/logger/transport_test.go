// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport(t *testing.T) {
	t.Parallel()

	receivedIDs := make(chan string, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedIDs <- r.Header.Get(requestIDHeaderName)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	buffer := new(bytes.Buffer)
	logger := NewLogger(buffer)
	logger.SetLevel(TRACE)

	client := &http.Client{Transport: NewTransport(nil, logger)}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL+"/api.json", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, req.Header.Get(requestIDHeaderName))
	assert.NotEmpty(t, <-receivedIDs)

	req, err = http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL+"/api.json", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeaderName, "fixed-id")
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "fixed-id", <-receivedIDs)

	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], OutgoingRequestMessage)
	assert.Contains(t, lines[1], RequestCompletedMessage)
	assert.Contains(t, lines[1], `"statusCode":204`)
	assert.Contains(t, lines[3], `"requestId":"fixed-id"`)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	logger := NewLogger(buffer)
	logger.SetLevel(DEBUG)

	client := &http.Client{Transport: NewTransport(nil, logger)}
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://127.0.0.1:1/unreachable", nil)
	require.NoError(t, err)

	_, err = client.Do(req) //nolint:bodyclose
	require.Error(t, err)
	assert.Contains(t, buffer.String(), RequestFailedMessage)
	assert.NotContains(t, buffer.String(), OutgoingRequestMessage)
}
