package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHashObjectCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] <file>",
		Short: "Compute the blob address of a file",
		Long:  "Print the address a file would be stored under. With -w the blob is also written to the store.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			addr, err := repo.HashObject(cmd.Context(), args[0], write)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the blob into the object store")
	return cmd
}
