package cmd

import (
	"fmt"

	"github.com/aweris/gitcas"
	"github.com/spf13/cobra"
)

func newCatFileCmd(a *app) *cobra.Command {
	var pretty, showType, showSize bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s) <address>",
		Short: "Show an object's content, type or size",
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

			obj, err := repo.Get(cmd.Context(), addr)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, obj.Type)
			case showSize:
				fmt.Fprintln(out, obj.Size())
			case pretty && obj.Type == gitcas.TypeTree:
				entries, err := gitcas.DecodeTree(obj.Payload)
				if err != nil {
					return fmt.Errorf("tree %s: %w", addr, err)
				}
				printTree(out, entries, false)
			default:
				_, err = out.Write(obj.Payload)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "print the object content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the payload size")
	cmd.MarkFlagsMutuallyExclusive("pretty", "type", "size")
	cmd.MarkFlagsOneRequired("pretty", "type", "size")

	return cmd
}
