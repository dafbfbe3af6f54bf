package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/cacao/internal/service/shipments"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify CODE...",
		Short: "Print the product category of tariff codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, shipments.ClassifyProduct(code))
			}
			return nil
		},
	}
}
