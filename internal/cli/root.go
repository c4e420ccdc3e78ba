// Package cli implements the techvote command line.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/techvote/techvote/internal/config"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "techvote",
	Short: "TechVote - civic information service for the Bangladesh national election",
	Long: `TechVote serves the voter journey guide, the anonymous incident report form
and the rumor checker over an HTTP API.

Rumor checks use a remote assessor when a credential is configured and a
fixed local rule table otherwise.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "techvote %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "techvote.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
}

// initConfig enables TECHVOTE_* environment overrides, e.g.
// TECHVOTE_SERVER_PORT or TECHVOTE_LLM_PROVIDER.
func initConfig() {
	viper.SetEnvPrefix("TECHVOTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file when it exists, falls back to the
// defaults otherwise, and applies environment and flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(cfgFile); err == nil {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	applyOverrides(cfg)
	cfg.LLM.APIKey = config.ResolveAPIKey(cfg.LLM.Provider, cfg.LLM.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if viper.IsSet("server.port") {
		cfg.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.enable_ui") {
		cfg.Server.EnableUI = viper.GetBool("server.enable_ui")
	}
	if viper.IsSet("server.session_ttl") {
		cfg.Server.SessionTTL = viper.GetDuration("server.session_ttl")
	}
	if viper.IsSet("database.driver") {
		cfg.Database.Driver = viper.GetString("database.driver")
	}
	if viper.IsSet("database.path") {
		cfg.Database.Path = viper.GetString("database.path")
	}
	if viper.IsSet("database.url") {
		cfg.Database.URL = viper.GetString("database.url")
	}
	if viper.IsSet("llm.provider") {
		cfg.LLM.Provider = viper.GetString("llm.provider")
	}
	if viper.IsSet("llm.model") {
		cfg.LLM.Model = viper.GetString("llm.model")
	}
	if viper.IsSet("llm.api_key") {
		cfg.LLM.APIKey = viper.GetString("llm.api_key")
	}
	if viper.IsSet("rumor_check.fallback_delay") {
		cfg.RumorCheck.FallbackDelay = viper.GetDuration("rumor_check.fallback_delay")
	}
	if viper.IsSet("reports.sink") {
		cfg.Reports.Sink = viper.GetString("reports.sink")
	}
	if viper.IsSet("reports.amqp_url") {
		cfg.Reports.AMQPURL = viper.GetString("reports.amqp_url")
	}
	if viper.IsSet("reports.strict_location_validation") {
		cfg.Reports.StrictLocationValidation = viper.GetBool("reports.strict_location_validation")
	}
	if viper.IsSet("logging.level") {
		cfg.Logging.Level = viper.GetString("logging.level")
	}
	if viper.IsSet("logging.format") {
		cfg.Logging.Format = viper.GetString("logging.format")
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
