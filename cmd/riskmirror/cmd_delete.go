package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete analyses and their stored reports",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			for i, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid analysis id %q", arg)
				}
				ids[i] = id
			}

			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			for _, id := range ids {
				if err := eng.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("deleting %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
			}
			return nil
		},
	}
}
