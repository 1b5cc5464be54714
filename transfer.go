package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/subscription-tracker/internal"
	"github.com/spf13/cobra"
)

type ExportParams struct {
	GlobalParams
	FilterParams
	Format string `descr:"Export format" alts:"csv,json,xlsx" strict:"true" default:"csv"`
	Out    string `descr:"Output file, - for stdout (default: subscriptions-YYYY-MM-DD.<format>)" optional:"true"`
}

func exportCmd(ctx context.Context) boa.CmdT[ExportParams] {
	return boa.CmdT[ExportParams]{
		Use:   "export",
		Short: "Export subscriptions to CSV, JSON or Excel",
		RunFunc: func(params *ExportParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			subs, err := svc.List(ctx)
			if err != nil {
				fail(err)
			}
			subs = params.FilterParams.apply(subs)

			export, err := internal.GetExporter(params.Format)
			if err != nil {
				fail(err)
			}

			if params.Out == "-" {
				if err := export(os.Stdout, subs); err != nil {
					fail(err)
				}
				return
			}

			path := params.Out
			if path == "" {
				path = internal.ExportFileName(params.Format, svc.Now())
			}
			f, err := os.Create(path)
			if err != nil {
				fail(fmt.Errorf("creating %s: %w", path, err))
			}
			if err := export(f, subs); err != nil {
				f.Close()
				fail(err)
			}
			if err := f.Close(); err != nil {
				fail(fmt.Errorf("closing %s: %w", path, err))
			}
			fmt.Fprintf(os.Stderr, "Exported %d subscriptions to %s\n", len(subs), path)
		},
	}
}

type ImportParams struct {
	GlobalParams
	Format string `descr:"Format for files whose extension is not recognised" optional:"true"`
	DryRun bool   `descr:"Parse and validate only; do not save" optional:"true"`
}

func importCmd(ctx context.Context) boa.CmdT[ImportParams] {
	return boa.CmdT[ImportParams]{
		Use:   "import [format:]file...",
		Short: "Import subscriptions from files",
		Long: "Imports subscriptions from files. The format is taken from a format: prefix, " +
			"then from the file extension. Available formats: " + strings.Join(internal.AvailableImporters(), ", ") + ".\n" +
			"The transactions format reads a bank statement and imports the payees charged once per month.",
		Args: cobra.MinimumNArgs(1),
		RunFunc: func(params *ImportParams, _ *cobra.Command, args []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			drafts, err := internal.ImportFiles(ctx, args, params.Format)
			if err != nil {
				fail(err)
			}

			if params.DryRun {
				subs, err := svc.Prepare(drafts)
				if err != nil {
					fail(err)
				}
				internal.PrintSubscriptionsTable(os.Stdout, subs, app.OutputOptions(svc.Now()))
				fmt.Println("Dry run, nothing saved.")
				return
			}
			n, err := svc.Import(ctx, drafts)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Imported %d subscriptions\n", n)
		},
	}
}
