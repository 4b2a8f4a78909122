package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/datenorm/internal/logger"
	"github.com/ppiankov/datenorm/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	logJSON bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "datenorm",
	Short: "Datenorm - EDTF date normalization for cultural-heritage metadata",
	Long: `Datenorm reads free-text date values from cultural-heritage metadata
and normalizes them to the Extended Date/Time Format (EDTF, level 1).

It recognises numeric dates, ranges, centuries, decades, month names in
several languages, era notation, DCMI periods and EDTF itself, and cleans
common annotations such as brackets, "circa" and trailing text.

Values it cannot read stay as they are and are reported as no match.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(logJSON, verbose); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Logger.Debugw("using config file", "path", used)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Datenorm.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("datenorm %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.datenorm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".datenorm"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// Read in environment variables that match DATENORM_*, e.g. DATENORM_CACHE_ENABLED
	viper.SetEnvPrefix("DATENORM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// setDefaults registers scalar defaults so that environment variables can override them
func setDefaults(cfg *model.Config) {
	viper.SetDefault("normalize.flexible_date_properties", cfg.Normalize.FlexibleDateProperties)
	viper.SetDefault("normalize.flexible_generic_properties", cfg.Normalize.FlexibleGenericProperties)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("concurrency.field_workers", cfg.Concurrency.FieldWorkers)
	viper.SetDefault("rate_limiting.records_per_second", cfg.RateLimiting.RecordsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.dir", cfg.Output.Dir)
	viper.SetDefault("output.include_time_spans", cfg.Output.IncludeTimeSpans)
	viper.SetDefault("input.max_bytes", cfg.Input.MaxBytes)
}

// loadConfig merges defaults, the config file and environment variables
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}
