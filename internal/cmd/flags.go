// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mia-platform/smhi/internal/output"
	"github.com/mia-platform/smhi/internal/smhi"
)

const (
	outputFlagName  = "output"
	outputFlagShort = "o"
	outputFlagUsage = "output format (possible values: %s)"
)

// flags collects the CLI options shared by the data commands.
type flags struct {
	output string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&f.output,
		outputFlagName,
		outputFlagShort,
		output.FormatText,
		fmt.Sprintf(outputFlagUsage, strings.Join(output.Formats(), ", ")))

	_ = cmd.RegisterFlagCompletionFunc(outputFlagName, outputFormatCompletion)
}

// toOptions builds an options instance from the parsed flags and CLI arguments.
func (f *flags) toOptions(cmd *cobra.Command, args []string) (*options, error) {
	writer, err := output.New(f.output, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidOutput, err)
	}

	parameter := smhi.TemperatureParameter
	if len(args) > 0 {
		parameter = args[0]
	}

	return &options{
		parameter:    strings.TrimSpace(parameter),
		writer:       writer,
		clientGetter: newAPIClient,
		now:          time.Now,
	}, nil
}
