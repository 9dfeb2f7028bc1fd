// Package cli holds the myfit command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/terraincognita07/myfit/internal/config"
)

// command carries the state shared by every subcommand of one invocation.
type command struct {
	viper   *viper.Viper
	cfgFile string
	envFile string
	cfg     config.Config

	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds the command tree. Streams are injected so tests can
// capture output.
func NewRootCommand(stdin *os.File, stdout io.Writer, stderr io.Writer) *cobra.Command {
	state := &command{
		viper:  config.NewViper(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "myfit",
		Short: "MyFit - self-hosted calorie and protein log",
		Long: `MyFit stores calorie and protein entries, aggregates them into daily
totals and streaks, and reads weekly activity from a health data bridge.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.loadConfig()
		},
	}
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&state.cfgFile, "config", "c", "", "config file (default: ./.myfit.yaml)")
	flags.StringVar(&state.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("db-path", "", "sqlite database path")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	_ = state.viper.BindPFlag("db_path", flags.Lookup("db-path"))
	_ = state.viper.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newServeCommand(state),
		newCreateUserCommand(state),
		newResetPasswordCommand(state),
		newImportCommand(state),
		newSummaryCommand(state),
	)
	return root
}

// Execute runs the command tree against the process streams.
func Execute() {
	if err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (state *command) loadConfig() error {
	if err := config.LoadDotEnv(state.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(state.viper, state.cfgFile)
	if err != nil {
		return err
	}
	state.cfg = cfg
	return nil
}
