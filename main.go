// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	internalcmd "github.com/mia-platform/smhi/internal/cmd"
	"github.com/mia-platform/smhi/internal/info"
	"github.com/mia-platform/smhi/internal/logconf"
	"github.com/mia-platform/smhi/internal/logger"
	"github.com/mia-platform/smhi/internal/version"
)

var (
	// Version is injected at build time via the Makefile.
	Version = info.Version
	// BuildDate is injected at build time via the Makefile.
	BuildDate = info.BuildDate

	appName      = info.AppName
	versionShort = "Display the " + appName + " version"

	errNoCommand = errors.New("no command provided")
)

const (
	appShort = "smhi reads weather observations from the SMHI Open Data API"
	appLong  = `smhi reads weather observations from the SMHI Open Data API.

	Logging is configured with the file passed to --log-config, or set in the
	SMHI_LOG_CONFIG environment variable; logging.conf in the working directory
	is used by default. Without a configuration file warnings and errors are
	written to stderr.`

	logLevelFlagName      = "log-level"
	logLevelShortFlagName = "v"
	logConfigFlagUsage    = "path of the logging configuration file, INI or YAML"

	versionCmdName = "version"

	// skipLoggingAnnotation marks commands that must run even with an invalid logging configuration.
	skipLoggingAnnotation = "smhi/skip-logging-config"
)

var (
	allLoggerLevels = []string{
		logger.TRACE.String(),
		logger.DEBUG.String(),
		logger.INFO.String(),
		logger.WARN.String(),
		logger.ERROR.String(),
	}
	logLevelFlagUsage = "override the logging level (possible values: " + strings.Join(allLoggerLevels, ", ") + ")"
)

// cliEnv holds the environment variables read by the root command.
type cliEnv struct {
	LogConfig string `env:"SMHI_LOG_CONFIG" envDefault:"logging.conf"`
}

// rootFlags holds the persistent flags shared across the command tree.
type rootFlags struct {
	logLevel  string
	logConfig string

	hierarchy *logger.Hierarchy
}

// addFlags registers the persistent CLI flags on cmd.
func (f *rootFlags) addFlags(cmd *cobra.Command) {
	logConfigDefault := internalcmd.DefaultLogConfigPath
	if environment, err := env.ParseAs[cliEnv](); err == nil {
		logConfigDefault = environment.LogConfig
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.logLevel, logLevelFlagName, logLevelShortFlagName, "", heredoc.Doc(logLevelFlagUsage))
	flags.StringVar(&f.logConfig, internalcmd.LogConfigFlagName, logConfigDefault, heredoc.Doc(logConfigFlagUsage))
}

// setupLogging loads the logging configuration and stores the resulting logger in the command context.
func (f *rootFlags) setupLogging(cmd *cobra.Command) error {
	log, err := f.loadLogger(cmd)
	if err != nil {
		if !skipLogging(cmd) {
			cmd.PrintErrln(err)
			return err
		}
		log = logger.NewBasicLogger(cmd.ErrOrStderr(), appName, logger.WARN)
	}

	if cmd.Flags().Changed(logLevelFlagName) {
		log.SetLevel(logger.LevelFromString(f.logLevel))
	}

	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	log.Debug("logging configured", "config", f.logConfig, "version", version.ServiceVersionInformation())
	return nil
}

func (f *rootFlags) loadLogger(cmd *cobra.Command) (logger.Logger, error) {
	config, err := logconf.LoadFile(f.logConfig)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return logger.NewBasicLogger(cmd.ErrOrStderr(), appName, logger.WARN), nil
	case err != nil:
		return nil, err
	}

	hierarchy, err := logger.NewHierarchy(config, logger.Streams{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	f.hierarchy = hierarchy
	return hierarchy.Logger(appName), nil
}

// closeLogging flushes and closes the configured handlers.
func (f *rootFlags) closeLogging() error {
	if f.hierarchy == nil {
		return nil
	}

	err := f.hierarchy.Close()
	f.hierarchy = nil
	return err
}

// skipLogging reports whether cmd or one of its parents tolerates an invalid logging configuration.
func skipLogging(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if _, ok := current.Annotations[skipLoggingAnnotation]; ok {
			return true
		}
	}
	return false
}

func main() {
	flags := &rootFlags{}
	cmd := rootCmd(flags)

	exitCode := 0
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		exitCode = 1
	}

	if err := flags.closeLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode)
}

// rootCmd constructs the root Cobra command with shared configuration.
func rootCmd(flag *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),
		Long:  heredoc.Doc(appLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.NoArgs(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.HasParent() {
				return nil
			}
			return flag.setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			return errNoCommand
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(err)
		_ = c.Usage()
		return err
	})

	logConfigCmd := internalcmd.LogConfigCmd()
	logConfigCmd.Annotations = map[string]string{skipLoggingAnnotation: "true"}

	showVersionCmd := versionCmd()
	showVersionCmd.Annotations = map[string]string{skipLoggingAnnotation: "true"}

	flag.addFlags(cmd)
	cmd.AddCommand(
		internalcmd.ParametersCmd(),
		internalcmd.StationsCmd(),
		internalcmd.TemperaturesCmd(),
		internalcmd.StatusCmd(),
		logConfigCmd,
		showVersionCmd,
	)

	return cmd
}

// versionCmd constructs the Cobra command that prints version information.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   versionCmdName,
		Short: heredoc.Doc(versionShort),

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.NoArgs(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String(Version, BuildDate, runtime.Version()))
		},
	}
}
