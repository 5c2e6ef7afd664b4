package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if
// any are invalid. Call after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	switch runner := viper.GetString("runner.type"); runner {
	case "local", "docker", "k8s":
	default:
		errors = append(errors, fmt.Sprintf("runner.type must be local, docker, or k8s, got: %q", runner))
	}

	if viper.GetString("runner.type") != "local" && viper.GetString("runner.image") == "" {
		errors = append(errors, "runner.image is required for the docker and k8s runners")
	}

	switch store := viper.GetString("store.type"); store {
	case "sqlite", "postgres":
	default:
		errors = append(errors, fmt.Sprintf("store.type must be sqlite or postgres, got: %q", store))
	}

	if viper.GetString("store.type") == "postgres" && viper.GetString("store.postgres_dsn") == "" {
		errors = append(errors, "store.postgres_dsn is required when store.type is postgres")
	}

	if timeout := viper.GetDuration("trial.timeout"); timeout < 0 {
		errors = append(errors, fmt.Sprintf("trial.timeout must not be negative, got: %s", timeout))
	}

	if cutoff := viper.GetInt("trial.cutoff"); cutoff < 0 {
		errors = append(errors, fmt.Sprintf("trial.cutoff must not be negative, got: %d", cutoff))
	}

	if viper.GetString("solver.path") == "" {
		errors = append(errors, "solver.path must not be empty")
	}

	if viper.GetString("plots.dir") == "" {
		errors = append(errors, "plots.dir must not be empty")
	}

	if viper.GetBool("metrics.enabled") && viper.GetString("metrics.addr") == "" {
		errors = append(errors, "metrics.addr must not be empty when metrics are enabled")
	}

	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}
