package main

import (
	"fmt"

	"github.com/hardwayp3nny/ioweb/internal/collector"
	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current snapshot to an Excel workbook",
	Long: `export reads the snapshot from the service (or builds it from local CSV
files with --local) and writes the aligned series and the latest reward table
to an .xlsx file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			snapshot *domain.Snapshot
			err      error
		)

		if viper.GetBool("local") {
			logger, lerr := newLogger()
			if lerr != nil {
				return fmt.Errorf("creating logger: %w", lerr)
			}
			defer func() { _ = logger.Sync() }()

			snapshot, err = newCollector(nil, logger).Build(cmd.Context())
		} else {
			snapshot, err = newServiceClient().Fetch(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}

		out := viper.GetString("out")
		if err := collector.ExportXLSX(snapshot, out); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}

		fmt.Printf("Exported %d point(s) to %s\n", len(snapshot.ProcessorData), out)
		return nil
	},
}

func init() {
	flags := exportCmd.Flags()
	flags.String("out", "trend.xlsx", "output workbook path")
	flags.Bool("local", false, "build the snapshot from local CSV files instead of fetching it")
	cobra.CheckErr(viper.BindPFlags(flags))

	rootCmd.AddCommand(exportCmd)
}
