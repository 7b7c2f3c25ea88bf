// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	parametersCmdUsage = "parameters"
	parametersCmdShort = "list the parameters measured by the SMHI stations"
	parametersCmdLong  = `List the parameters exposed by the SMHI Open Data meteorological
	observations API, sorted by their key.

	The API root can be changed with the SMHI_BASE_URL environment variable.`
	parametersCmdExample = `# List all the parameters
	smhi parameters

	# List all the parameters as JSON
	smhi parameters -o json`

	stationsCmdUsage   = "stations [PARAMETER]"
	stationsCmdShort   = "list the stations measuring a parameter"
	stationsCmdLong    = `List the stations measuring a parameter, by default the daily mean air temperature.`
	stationsCmdExample = `# List the stations measuring the daily mean air temperature
	smhi stations

	# List the stations measuring the hourly air temperature
	smhi stations 1`

	temperaturesCmdUsage = "temperatures"
	temperaturesCmdShort = "print the highest and lowest temperatures"
	temperaturesCmdLong  = `Print the stations with the highest and the lowest daily mean air temperature.
	Stations not updated within SMHI_MAX_STATION_AGE are skipped; the remaining ones
	are read with at most SMHI_CONCURRENCY parallel requests, limited to
	SMHI_RATE_LIMIT requests per second.`
	temperaturesCmdExample = `# Print the highest and lowest temperatures
	smhi temperatures`

	statusCmdUsage   = "status"
	statusCmdShort   = "print the status code returned by the SMHI API"
	statusCmdExample = `# Check that the API is reachable
	smhi status`
)

// ParametersCmd returns the Cobra command that lists the API parameters.
func ParametersCmd() *cobra.Command {
	return dataCmd(parametersCmdUsage, parametersCmdShort, parametersCmdLong, parametersCmdExample, cobra.NoArgs,
		func(cmd *cobra.Command, opts *options) error {
			return opts.executeParameters(cmd.Context())
		})
}

// StationsCmd returns the Cobra command that lists the stations of a parameter.
func StationsCmd() *cobra.Command {
	return dataCmd(stationsCmdUsage, stationsCmdShort, stationsCmdLong, stationsCmdExample, cobra.MaximumNArgs(1),
		func(cmd *cobra.Command, opts *options) error {
			return opts.executeStations(cmd.Context())
		})
}

// TemperaturesCmd returns the Cobra command that prints the temperature extremes.
func TemperaturesCmd() *cobra.Command {
	return dataCmd(temperaturesCmdUsage, temperaturesCmdShort, temperaturesCmdLong, temperaturesCmdExample, cobra.NoArgs,
		func(cmd *cobra.Command, opts *options) error {
			return opts.executeTemperatures(cmd.Context())
		})
}

// StatusCmd returns the Cobra command that checks the connection to the API.
func StatusCmd() *cobra.Command {
	return dataCmd(statusCmdUsage, statusCmdShort, statusCmdShort, statusCmdExample, cobra.NoArgs,
		func(cmd *cobra.Command, opts *options) error {
			return opts.executeStatus(cmd.Context())
		})
}

// dataCmd builds a command reading data from the API and rendering it with the output flag.
func dataCmd(use, short, long, example string, args cobra.PositionalArgs, execute func(*cobra.Command, *options) error) *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     use,
		Short:   heredoc.Doc(short),
		Long:    heredoc.Doc(long),
		Example: heredoc.Doc(example),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, positional []string) error {
			if err := args(cmd, positional); err != nil {
				return handleError(cmd, fmtInvalidArguments(err))
			}
			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := execute(cmd, opts); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
