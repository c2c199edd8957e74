package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errVerifyFailed = errors.New("object store verification failed")

func newFsckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fsck",
		Short: "Verify every stored object",
		Long:  "Re-hash every object, check its header and decode every tree. Exits non-zero if any object is broken.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			report, err := repo.Verify(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range report.Problems {
				fmt.Fprintf(out, "broken %s\n", p)
			}
			fmt.Fprintf(out, "checked %d objects (%d blobs, %d trees), %d broken\n",
				report.Checked, report.Blobs, report.Trees, len(report.Problems))

			if !report.OK() {
				return errVerifyFailed
			}
			return nil
		},
	}
}
