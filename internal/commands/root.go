package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mol3earth/ofx/internal/buildinfo"
	"github.com/mol3earth/ofx/internal/config"
	"github.com/mol3earth/ofx/internal/credentials"
	"github.com/mol3earth/ofx/internal/logger"
	"github.com/mol3earth/ofx/internal/model"
	"github.com/mol3earth/ofx/internal/ofxclient"
	"github.com/mol3earth/ofx/internal/spending"
)

// statementFetcher downloads a statement from a configured institution.
type statementFetcher interface {
	Fetch(ctx context.Context, name string, inst config.Institution, start, end time.Time) (*model.Statement, error)
}

// app carries the collaborators shared by all subcommands.
type app struct {
	clock   spending.Clock
	fetcher statementFetcher
	log     zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{
		clock:   spending.SystemClock(),
		fetcher: ofxclient.New(credentials.NewStore()),
		log:     zerolog.Nop(),
	})
}

func newRootCommand(a *app) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "spendtrend",
		Short:   "Track statement spending against a weekly goal",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = logger.New(cmd.ErrOrStderr(), verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newInitCommand(a))

	return rootCmd
}
