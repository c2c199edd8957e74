package cmd

import (
	"fmt"

	"github.com/aweris/gitcas"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create an empty repository",
		Long:  "Create .git/objects, .git/refs and HEAD in dir (default: --repo). Existing objects are kept.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.repoDir()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				dir = args[0]
			}

			repo, err := gitcas.Init(dir, a.options()...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized repository in %s\n", repo.GitDir())
			return nil
		},
	}
}
