package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/domain/models"
	"github.com/mamadbah2/cacao/internal/repository/workbook"
	"github.com/mamadbah2/cacao/internal/service/dashboard"
	"github.com/mamadbah2/cacao/internal/service/shipments"
)

type seasonsOptions struct {
	file       string
	sheetPortA string
	portA      string
	sheetPortB string
	portB      string
	verbose    bool
}

func newSeasonsCmd() *cobra.Command {
	opts := seasonsOptions{}

	cmd := &cobra.Command{
		Use:   "seasons",
		Short: "Print exported tonnes per cocoa season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeasons(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "DB - Cocoa CIV - Shipping 20212022.xlsx", "shipment workbook (.xlsx)")
	flags.StringVar(&opts.sheetPortA, "sheet-a", "DB ABJ", "sheet holding the first port's shipments")
	flags.StringVar(&opts.portA, "port-a", string(models.PortAbidjan), "name of the first port")
	flags.StringVar(&opts.sheetPortB, "sheet-b", "DB SP", "sheet holding the second port's shipments")
	flags.StringVar(&opts.portB, "port-b", string(models.PortSanPedro), "name of the second port")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log sheet reads")
	return cmd
}

func runSeasons(cmd *cobra.Command, opts seasonsOptions) error {
	log := zap.NewNop()
	if opts.verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = dev
	}

	loader := shipments.NewLoader(workbook.NewRepository(opts.file, log), []shipments.SheetPort{
		{Sheet: opts.sheetPortA, Port: models.Port(opts.portA)},
		{Sheet: opts.sheetPortB, Port: models.Port(opts.portB)},
	}, log)

	rows, err := loader.Load(cmd.Context())
	if err != nil {
		return err
	}
	ds, err := shipments.Derive(rows)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEASON\tVOLUME")
	for _, sv := range ds.SeasonVolumes {
		fmt.Fprintf(w, "%s\t%s\n", sv.Season, dashboard.FormatTonnes(sv.Tonnes))
	}
	fmt.Fprintf(w, "TOTAL\t%s\n", dashboard.FormatTonnes(ds.TotalTonnes()))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d shipments kept out of %d rows\n", len(ds.Records), len(rows))
	return nil
}
