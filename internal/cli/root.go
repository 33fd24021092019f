package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/avatartag/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	// configErr holds a config file read failure until loadConfig reports it
	configErr error

	logger = logrus.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "avatartag",
	Short: "avatartag - avatar attribute classifier and labeling tool",
	Long: `avatartag maps free-text descriptions ("I'm pretty athletic", "shaved")
to avatar attribute categories such as body shape and hair style, and runs an
interactive session for tagging a collection of avatar assets by category.

Matching is deterministic: keywords first (in declared priority order),
then numeric fallback tokens ("1".."4").`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("avatartag %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.avatartag/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.avatartag")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Scalar defaults make every key visible to AVATARTAG_* overrides
	defaults := model.DefaultConfig()
	viper.SetDefault("session.max_polls", defaults.Session.MaxPolls)
	viper.SetDefault("session.poll_interval", defaults.Session.PollInterval)
	viper.SetDefault("batch.workers", defaults.Batch.Workers)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("cache.cleanup_interval", defaults.Cache.CleanupInterval)

	// AVATARTAG_SESSION_MAX_POLLS overrides session.max_polls
	viper.SetEnvPrefix("AVATARTAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Only the default location may be absent
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			configErr = fmt.Errorf("read config file: %w", err)
		}
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func setupLogger() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if viper.GetBool("output.verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// loadConfig merges the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	if configErr != nil {
		return nil, configErr
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for _, name := range cfg.VocabularyNames() {
		if _, err := cfg.Vocabulary(name); err != nil {
			return nil, fmt.Errorf("vocabulary %q: %w", name, err)
		}
	}
	return cfg, nil
}
