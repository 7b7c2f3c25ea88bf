// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mia-platform/smhi/internal/output"
	"github.com/mia-platform/smhi/internal/smhi"
)

var (
	errNoSubcommand      = errors.New("no sub command provided")
	errInvalidArguments  = errors.New("invalid arguments")
	errInvalidOutput     = errors.New("invalid output format")
	errUnreachableServer = errors.New("SMHI API returned an error status")
)

// apiClient is the subset of the SMHI client used by the commands.
type apiClient interface {
	BaseURL() string
	CheckConnection(ctx context.Context) (int, error)
	Parameters(ctx context.Context) ([]smhi.Parameter, error)
	Stations(ctx context.Context, parameter string) ([]smhi.Station, error)
	Temperatures(ctx context.Context, now time.Time) (*smhi.Extremes, error)
}

// newAPIClient creates the client from the environment; it can be overridden by tests.
func newAPIClient(ctx context.Context) (apiClient, error) {
	client, err := smhi.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoSubcommand):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidArguments), errors.Is(err, errInvalidOutput):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

func fmtInvalidArguments(err error) error {
	return fmt.Errorf("%w: %s", errInvalidArguments, err.Error())
}

// outputFormatCompletion completes the values of the output flag.
func outputFormatCompletion(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var comps []string
	for _, format := range output.Formats() {
		if strings.HasPrefix(format, toComplete) {
			comps = append(comps, format)
		}
	}

	return comps, cobra.ShellCompDirectiveNoFileComp
}
