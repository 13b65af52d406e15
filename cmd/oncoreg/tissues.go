package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oncoreg/oncoreg/internal/tissue"
)

func newTissuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tissues",
		Short: "List supported cancer types and their tissue identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range tissue.SupportedTypes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t, tissue.TissueID(t))
			}
			return nil
		},
	}
}
