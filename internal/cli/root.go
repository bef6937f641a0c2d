package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/ofelia/internal/logging"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd builds the ofelia command tree
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	root := &cobra.Command{
		Use:   "ofelia",
		Short: "Command line client for the Ofelia bracelet API",
		Long: `ofelia talks to the Ofelia bracelet JSON API.

Look up where a bracelet leads, log in as its owner, activate a new
bracelet with an emergency profile, and edit that profile later.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			client = NewClient(cfg.ServerURL, cfg.Token, logging.New(cmd.ErrOrStderr(), logging.FormatText, level))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "server URL (env: OFELIA_SERVER)")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "session token (env: OFELIA_TOKEN)")
	flags.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "where the session token is kept (env: OFELIA_TOKEN_FILE)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: text or json")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log each API call to stderr")

	root.AddCommand(
		newResolveCmd(),
		newProfileCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newEditCmd(),
		newHealthCmd(),
	)
	return root
}

// Execute runs the CLI, cancelling in-flight calls on interrupt
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
