package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/aweris/gitcas"
	"github.com/spf13/cobra"
)

func newLsTreeCmd(a *app) *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] <address>",
		Short: "List the entries of a tree",
		Long:  "List the immediate entries of a tree object, one per line, in stored order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := gitcas.ParseAddress(args[0])
			if err != nil {
				return err
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			entries, err := repo.ReadTree(cmd.Context(), addr)
			if err != nil {
				return err
			}

			printTree(cmd.OutOrStdout(), entries, nameOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	return cmd
}

// printTree writes entries the way git ls-tree does.
func printTree(w io.Writer, entries []gitcas.TreeEntry, nameOnly bool) {
	for _, e := range entries {
		if nameOnly {
			fmt.Fprintln(w, e.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s %s\t%s\n", padMode(e.Mode), e.Type(), e.Address, e.Name)
	}
}

// padMode left-pads a mode to six digits; trees are stored as "40000".
func padMode(mode string) string {
	if len(mode) >= 6 {
		return mode
	}
	return strings.Repeat("0", 6-len(mode)) + mode
}
