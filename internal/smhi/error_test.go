// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("Error returns prefixed message", func(t *testing.T) {
		t.Parallel()

		err := &Error{err: errors.New("something went wrong")}
		require.Equal(t, "smhi: something went wrong", err.Error())
	})

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		t.Parallel()

		err := &Error{err: errNotFound}
		require.ErrorIs(t, err, errNotFound)
	})

	t.Run("Is matches errors with the same message", func(t *testing.T) {
		t.Parallel()

		err1 := &Error{err: errors.New("foo")}
		err2 := &Error{err: errors.New("foo")}
		err3 := &Error{err: errors.New("bar")}

		require.ErrorIs(t, err1, err2)
		require.NotErrorIs(t, err1, err3)
		require.NotErrorIs(t, err1, errors.New("foo"))
	})
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	t.Run("wraps normal error", func(t *testing.T) {
		t.Parallel()

		result := handleError(errors.New("boom"))

		var smhiErr *Error
		require.ErrorAs(t, result, &smhiErr)
		require.Equal(t, "smhi: boom", result.Error())
	})

	t.Run("unwraps env.AggregateError", func(t *testing.T) {
		t.Parallel()

		result := handleError(env.AggregateError{
			Errors: []error{
				errors.New("env error 1"),
				errors.New("env error 2"),
			},
		})
		require.Equal(t, "smhi: env error 1", result.Error())
	})

	t.Run("returns nil when context canceled is wrapped", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, handleError(context.Canceled))
		require.NoError(t, handleError(fmt.Errorf("request: %w", context.Canceled)))
	})

	t.Run("does not wrap twice", func(t *testing.T) {
		t.Parallel()

		result := handleError(handleError(errors.New("boom")))
		require.Equal(t, "smhi: boom", result.Error())
	})
}
