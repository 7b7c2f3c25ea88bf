// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeaderName = "X-Request-Id"

	OutgoingRequestMessage  = "outgoing request"
	RequestCompletedMessage = "request completed"
	RequestFailedMessage    = "request failed"
)

// Make sure that loggingTransport is a http.RoundTripper.
var _ http.RoundTripper = &loggingTransport{}

type loggingTransport struct {
	next   http.RoundTripper
	logger Logger
}

// NewTransport wraps next logging every outgoing request and its outcome.
// Requests without a request id header receive a random one.
func NewTransport(next http.RoundTripper, logger Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

// GetReqID returns the request id of req, generating a new one when missing.
func GetReqID(req *http.Request) string {
	if requestID := req.Header.Get(requestIDHeaderName); requestID != "" {
		return requestID
	}

	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := GetReqID(req)
	if req.Header.Get(requestIDHeaderName) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(requestIDHeaderName, requestID)
	}

	t.logger.Trace(OutgoingRequestMessage,
		"requestId", requestID,
		"method", req.Method,
		"url", req.URL.Redacted(),
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Debug(RequestFailedMessage,
			"requestId", requestID,
			"method", req.Method,
			"url", req.URL.Redacted(),
			"error", err,
			"responseTime", float64(time.Since(start).Milliseconds()),
		)
		return nil, err
	}

	t.logger.Debug(RequestCompletedMessage,
		"requestId", requestID,
		"method", req.Method,
		"url", req.URL.Redacted(),
		"statusCode", resp.StatusCode,
		"responseTime", float64(time.Since(start).Milliseconds()),
	)
	return resp, nil
}
