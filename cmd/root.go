package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"etlcheck/internal/catalog"
	"etlcheck/internal/testgen"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string

	Log     = zap.NewNop()
	Conns   catalog.Connections
	Catalog *catalog.Catalog
)

var RootCmd = &cobra.Command{
	Use:   "etlcheck",
	Short: "ETL mapping sheet analyzer and test generator",
	Long: `
  _____ _____ _      ____ _   _ _____ ____ _  __
 | ____|_   _| |    / ___| | | | ____/ ___| |/ /
 |  _|   | | | |   | |   | |_| |  _|| |   | ' / 
 | |___  | | | |___| |___|  _  | |__| |___| . \ 
 |_____| |_| |_____|\____|_| |_|_____\____|_|\_\

ETLCHECK 🔎 - Mapping Sheet Intelligence & ETL Test Generator
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		Log = l

		Conns, err = LoadConnections()
		if err != nil {
			return err
		}

		fetcher := catalog.NewFetcher(Conns, catalog.FetcherOptions{
			PollInterval: viper.GetDuration("catalog.poll_interval"),
			PollTimeout:  viper.GetDuration("catalog.poll_timeout"),
			HTTPClient:   &http.Client{Timeout: 30 * time.Second},
			Log:          Log,
		})
		Catalog = catalog.New(fetcher,
			catalog.WithTTL(viper.GetDuration("catalog.ttl")),
			catalog.WithFetchTimeout(viper.GetDuration("catalog.fetch_timeout")),
			catalog.WithLogger(Log))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = Log.Sync()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./etlcheck.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	RootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", RootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("catalog.ttl", catalog.DefaultTTL)
	viper.SetDefault("catalog.fetch_timeout", catalog.DefaultFetchTimeout)
	viper.SetDefault("catalog.poll_interval", catalog.DefaultPollInterval)
	viper.SetDefault("catalog.poll_timeout", catalog.DefaultPollTimeout)
	viper.SetDefault("audit.table", testgen.DefaultAuditTable)
	viper.SetDefault("audit.reject_table", testgen.DefaultRejectTable)
	viper.SetDefault("settings.sample_limit", testgen.DefaultSampleLimit)
	viper.SetDefault("settings.pipeline", testgen.DefaultPipelineName)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("etlcheck")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ETLCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // ETLCHECK_LOG_LEVEL etc.

	// stdout carries reports, so config chatter goes to stderr
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a stderr logger. format "json" gives the production
// encoder, anything else the console one.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if format != "json" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
