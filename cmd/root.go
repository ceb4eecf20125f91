package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ghost-publisher/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
)

// envKeys are the config keys that may be set through GHOSTPUB_* variables.
var envKeys = []string{
	"app.log_level", "app.log_format",
	"ghost.site_url", "ghost.admin_api_key", "ghost.timeout", "ghost.format",
	"redis.enabled", "redis.addr", "redis.username", "redis.password", "redis.db",
	"publish.lock_ttl", "publish.history_size",
	"openai.api_key", "openai.model", "openai.base_url",
}

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "ghost-publisher",
	Short:         "Publish markdown notes to a Ghost site",
	Long:          "Publish, schedule and update markdown notes as Ghost posts through the Admin API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ghost-publisher")
		v.AddConfigPath("configs")
	}

	v.SetEnvPrefix("GHOSTPUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	slog.SetDefault(newLogger(appCfg.App))
}

// newLogger builds the stderr logger from app.log_level and app.log_format.
func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(app.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
