// Package cli wires the goshell binary's command-line surface (flags,
// version, logging level) onto the reusable pkg/shell engine.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naveen-go/goshell/pkg/shell"
)

// Version is the build-time version string, overridden via
// -ldflags "-X github.com/naveen-go/goshell/internal/cli.Version=...".
var Version = "dev"

var (
	commandLine string
	logLevel    string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:     "goshell",
	Short:   "goshell is a small POSIX-subset interactive shell",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(logLevel)

		sh := shell.New(os.Stdin, os.Stdout, os.Stderr,
			shell.WithLogger(log),
			shell.WithNoColor(noColor),
		)

		if commandLine != "" {
			os.Exit(sh.RunOnce(commandLine))
			return nil
		}

		code, err := sh.Run()
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run one command line non-interactively and exit")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "internal diagnostic log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colorized prompt and diagnostics")
	rootCmd.SilenceUsage = true
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.WarnLevel
	}
	log.SetLevel(parsed)

	return log
}

// Execute runs the root command, printing any top-level error to stderr
// and exiting 1. RunE itself calls os.Exit on every other path so that
// the REPL/'-c' exit code reaches the OS even though cobra only inspects
// RunE's returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
