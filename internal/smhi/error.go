// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"context"
	"errors"

	"github.com/caarlos0/env/v11"
)

var (
	errNotFound = errors.New("resource not found")
)

// Error wraps lower-level errors produced while talking with the SMHI API.
type Error struct {
	err error
}

func (e *Error) Error() string {
	return "smhi: " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Is(target error) bool {
	smhiErr, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.err.Error() == smhiErr.err.Error()
}

// handleError normalizes errors emitted by the client.
func handleError(err error) error {
	var parseErr env.AggregateError
	if errors.As(err, &parseErr) {
		err = parseErr.Errors[0]
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	var smhiErr *Error
	if errors.As(err, &smhiErr) {
		return smhiErr
	}

	return &Error{
		err: err,
	}
}
