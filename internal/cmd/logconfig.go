// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/smhi/internal/logconf"
	"github.com/mia-platform/smhi/internal/output"
)

const (
	// LogConfigFlagName is the persistent flag holding the logging configuration path.
	LogConfigFlagName = "log-config"
	// DefaultLogConfigPath is read from the working directory when the flag is not set.
	DefaultLogConfigPath = "logging.conf"

	logConfigCmdUsage = "logconfig"
	logConfigCmdShort = "inspect logging configuration files"
	logConfigCmdLong  = `Inspect logging configuration files.
	Files ending with .yaml or .yml are read as YAML dictionaries, all the others as INI
	files with [loggers], [handlers] and [formatters] sections.`

	validateCmdUsage   = "validate [PATH]"
	validateCmdShort   = "check that a logging configuration is valid"
	validateCmdExample = `# Validate the configuration used by the other commands
	smhi logconfig validate

	# Validate a specific file
	smhi logconfig validate configs/logging.yaml`

	showCmdUsage   = "show [PATH]"
	showCmdShort   = "print the parsed logging configuration"
	showCmdExample = `# Print the configuration as YAML
	smhi logconfig show -o yaml`

	validMessage = "%s: valid\n"
)

// LogConfigCmd returns the Cobra command grouping the logging configuration tools.
func LogConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   logConfigCmdUsage,
		Short: heredoc.Doc(logConfigCmdShort),
		Long:  heredoc.Doc(logConfigCmdLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleError(cmd, errNoSubcommand)
		},
	}

	cmd.AddCommand(
		validateCmd(),
		showCmd(),
	)
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     validateCmdUsage,
		Short:   heredoc.Doc(validateCmdShort),
		Example: heredoc.Doc(validateCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return handleError(cmd, fmtInvalidArguments(err))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := logConfigPath(cmd, args)
			if _, err := logconf.LoadFile(path); err != nil {
				return handleError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), validMessage, path)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     showCmdUsage,
		Short:   heredoc.Doc(showCmdShort),
		Example: heredoc.Doc(showCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return handleError(cmd, fmtInvalidArguments(err))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := output.New(flags.output, cmd.OutOrStdout())
			if err != nil {
				return handleError(cmd, fmt.Errorf("%w: %w", errInvalidOutput, err))
			}

			config, err := logconf.LoadFile(logConfigPath(cmd, args))
			if err != nil {
				return handleError(cmd, err)
			}

			if err := writer.Write(config); err != nil {
				return handleError(cmd, err)
			}
			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// logConfigPath returns the path argument, the inherited log-config flag or the default path.
func logConfigPath(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	if path, err := cmd.Flags().GetString(LogConfigFlagName); err == nil && path != "" {
		return path
	}
	return DefaultLogConfigPath
}
