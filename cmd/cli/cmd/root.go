package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogrid/osmf-sim/pkg/logger"
)

var (
	cfgFile  string
	envName  string
	envURL   string
	graphDir string
	logLevel string
	noColor  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "osmf-sim",
	Short: "Firefighter simulation CLI",
	Long: `osmf-sim configures firefighter-problem simulations: it offers the graphs
known to a simulation engine, collects fire source and firefighter settings,
and emits the configuration record the engine accepts.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.osmf-sim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "engine environment name to use")
	rootCmd.PersistentFlags().StringVar(&envURL, "url", "", "simulation engine URL (overrides environment)")
	rootCmd.PersistentFlags().StringVar(&graphDir, "graph-dir", "", "list graphs from a local directory instead of the engine")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	_ = viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("graph_dir", rootCmd.PersistentFlags().Lookup("graph-dir"))
	_ = viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(graphsCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(envCmd)
}

// Execute runs the root command, cancelling its context on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	logger.SetLevel(logger.ParseLevel(logLevel))
	logger.SetNoColor(noColor)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME/.osmf-sim")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// OSMF_URL, OSMF_API_KEY, OSMF_GRAPH, OSMF_NUM_FFS, ...
	viper.SetEnvPrefix("OSMF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debugf("using config file %s", viper.ConfigFileUsed())
	}
}
