package main

import (
	"fmt"
	"os"

	"github.com/brunobiangulo/riskmirror"
	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		domain string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored analyses to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := eng.Export(cmd.Context(), f, riskmirror.WithDomain(domain)); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "history.xlsx", "output workbook path")
	cmd.Flags().StringVar(&domain, "domain", "", "only export this domain")
	return cmd
}
