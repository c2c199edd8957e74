package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-tree [dir]",
		Short: "Store a directory and print its tree address",
		Long: `Store every file and directory below dir (default: the work tree) and print
the address of the root tree. The .git directory is skipped at every level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}

			addr, err := repo.WriteTree(cmd.Context(), dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}

	cmd.Flags().String("ignore-file", "", "gitignore-style file listing paths to leave out")
	_ = a.v.BindPFlag("ignore_file", cmd.Flags().Lookup("ignore-file"))

	return cmd
}
