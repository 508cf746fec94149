package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mol3earth/ofx/internal/config"
	"github.com/mol3earth/ofx/internal/credentials"
)

func newInitCommand(a *app) *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			return a.runInit(cmd, path, force)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "config file to create (default: user config dir)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func (a *app) runInit(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	a.log.Debug().Str("path", path).Msg("config written")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote config to %s\n", path)
	for _, name := range cfg.InstitutionNames() {
		fmt.Fprintf(out, "Edit institution %q and set its password in %s\n", name, credentials.EnvVar(name))
	}
	return nil
}
