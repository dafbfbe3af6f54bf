// Command cacaoctl inspects shipment workbooks without starting the dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cacaoctl",
		Short:         "Inspect cocoa export shipment workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeasonsCmd(), newClassifyCmd())
	return root
}
