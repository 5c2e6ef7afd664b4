package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment
// variables. A missing config file is fine; `tspbench init` writes one.
// Loading never touches stdout, which is reserved for benchmark output.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is not an error
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TSPBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("solver.path", "./parallel_tsp")
	viper.SetDefault("plots.dir", "plots")
	viper.SetDefault("runner.type", "local")
	viper.SetDefault("runner.image", "")
	viper.SetDefault("runner.namespace", "default")
	// No timeout by default: a hung solver hangs the harness.
	// trial.timeout (a duration, e.g. "30s") opts in to a bound.
	viper.SetDefault("trial.timeout", 0)
	viper.SetDefault("trial.cutoff", 0)
	viper.SetDefault("store.type", "sqlite")
	viper.SetDefault("store.path", "tspbench.db")
	viper.SetDefault("store.postgres_dsn", "")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.addr", ":9091")
	viper.SetDefault("log.file", "")
	viper.SetDefault("verbose", false)

	slackEnabled := os.Getenv("SLACK_BOT_USER_TOKEN") != ""
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.slack.events.session_complete", true)
	viper.SetDefault("notifications.slack.events.session_failed", true)

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}
