package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Aggregate local CSV files and PUT the snapshot to the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		c := newCollector(newServiceClient(), logger)

		if viper.GetBool("dry-run") {
			snapshot, err := c.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("building snapshot: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snapshot)
		}

		snapshot, err := c.Publish(cmd.Context())
		if err != nil {
			return fmt.Errorf("publishing snapshot: %w", err)
		}

		fmt.Printf("Published %d point(s), IO price %s, USD/CNY %s\n",
			len(snapshot.ProcessorData), snapshot.IOPrice, snapshot.USDCNYRate)
		return nil
	},
}

func init() {
	publishCmd.Flags().Bool("dry-run", false, "print the snapshot instead of sending it")
	cobra.CheckErr(viper.BindPFlags(publishCmd.Flags()))

	rootCmd.AddCommand(publishCmd)
}
