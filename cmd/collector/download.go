package main

import (
	"fmt"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/collector"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download hourly block-worker CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		hours := viper.GetInt("hours")
		if hours <= 0 {
			return fmt.Errorf("hours must be positive, got %d", hours)
		}

		downloader := collector.NewDownloader(
			viper.GetString("block-workers-url"),
			viper.GetString("dir"),
			viper.GetDuration("delay"),
			viper.GetDuration("timeout"),
			logger,
		)

		fetched, err := downloader.Download(cmd.Context(), hours, time.Now())
		if err != nil {
			return fmt.Errorf("downloading csv files: %w", err)
		}

		logger.Info("download finished", zap.Int("fetched", fetched), zap.Int("hours", hours))
		fmt.Printf("Downloaded %d file(s) into %s\n", fetched, viper.GetString("dir"))
		return nil
	},
}

func init() {
	flags := downloadCmd.Flags()
	flags.Int("hours", 72, "number of past hours to fetch")
	flags.Duration("delay", time.Second, "pause between requests")
	flags.String("block-workers-url", collector.DefaultBlockWorkersURL, "base URL of the hourly CSV archive")
	cobra.CheckErr(viper.BindPFlags(flags))

	rootCmd.AddCommand(downloadCmd)
}
