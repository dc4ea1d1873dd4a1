package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/collector"
	applogger "github.com/hardwayp3nny/ioweb/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Builds and publishes processor reward snapshots",
	Long: `collector downloads hourly block-worker CSV files, aggregates rewards per
processor tier, joins them with the IO token price and the USD/CNY rate and
PUTs the resulting snapshot to the snapshot service.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./.collector.yaml)")
	flags.String("dir", "data", "directory with hourly CSV files")
	flags.String("service-url", "http://localhost:8080", "snapshot service base URL")
	flags.String("ticker-url", collector.DefaultTickerURL, "IO/USDT ticker endpoint")
	flags.String("fx-url", collector.DefaultFXURL, "USD exchange rate endpoint")
	flags.Int("workers", collector.DefaultWorkers, "number of CSV aggregation workers")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout for upstream calls")
	flags.String("log-level", "info", "log level")

	cobra.CheckErr(viper.BindPFlags(flags))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".collector")
	}

	_ = godotenv.Load()

	viper.SetEnvPrefix("ioweb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() (*zap.Logger, error) {
	return applogger.NewLogger(viper.GetString("log-level"))
}

func newPriceClient() *collector.PriceClient {
	return collector.NewPriceClient(
		viper.GetString("ticker-url"),
		viper.GetString("fx-url"),
		viper.GetDuration("timeout"),
	)
}

func newCollector(publisher collector.Publisher, logger *zap.Logger) *collector.Collector {
	return collector.NewCollector(viper.GetString("dir"), newPriceClient(), publisher, logger).
		WithWorkers(viper.GetInt("workers"))
}

func newServiceClient() *collector.ServiceClient {
	return collector.NewServiceClient(viper.GetString("service-url"), viper.GetDuration("timeout"))
}
