package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setBaseline() {
	viper.Set("runner.type", "local")
	viper.Set("store.type", "sqlite")
	viper.Set("solver.path", "./parallel_tsp")
	viper.Set("plots.dir", "plots")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		setup     func()
		wantError bool
		errMsg    string
	}{
		{
			name: "Valid Configuration",
			setup: func() {
				setBaseline()
				viper.Set("trial.timeout", 30)
				viper.Set("trial.cutoff", 250)
			},
			wantError: false,
		},
		{
			name: "Invalid Runner Type",
			setup: func() {
				setBaseline()
				viper.Set("runner.type", "podman")
			},
			wantError: true,
			errMsg:    "runner.type must be local, docker, or k8s",
		},
		{
			name: "Docker Runner Without Image",
			setup: func() {
				setBaseline()
				viper.Set("runner.type", "docker")
			},
			wantError: true,
			errMsg:    "runner.image is required",
		},
		{
			name: "Invalid Store Type",
			setup: func() {
				setBaseline()
				viper.Set("store.type", "redis")
			},
			wantError: true,
			errMsg:    "store.type must be sqlite or postgres",
		},
		{
			name: "Postgres Without DSN",
			setup: func() {
				setBaseline()
				viper.Set("store.type", "postgres")
			},
			wantError: true,
			errMsg:    "store.postgres_dsn is required",
		},
		{
			name: "Negative Trial Timeout",
			setup: func() {
				setBaseline()
				viper.Set("trial.timeout", -5)
			},
			wantError: true,
			errMsg:    "trial.timeout must not be negative",
		},
		{
			name: "Negative Cutoff",
			setup: func() {
				setBaseline()
				viper.Set("trial.cutoff", -1)
			},
			wantError: true,
			errMsg:    "trial.cutoff must not be negative",
		},
		{
			name: "Empty Solver Path",
			setup: func() {
				setBaseline()
				viper.Set("solver.path", "")
			},
			wantError: true,
			errMsg:    "solver.path must not be empty",
		},
		{
			name: "Empty Plots Dir",
			setup: func() {
				setBaseline()
				viper.Set("plots.dir", "")
			},
			wantError: true,
			errMsg:    "plots.dir must not be empty",
		},
		{
			name: "Metrics Enabled Without Addr",
			setup: func() {
				setBaseline()
				viper.Set("metrics.enabled", true)
				viper.Set("metrics.addr", "")
			},
			wantError: true,
			errMsg:    "metrics.addr must not be empty",
		},
		{
			name: "Multiple Errors",
			setup: func() {
				setBaseline()
				viper.Set("runner.type", "podman")
				viper.Set("trial.timeout", -5)
			},
			wantError: true,
			errMsg:    "configuration validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			if tt.setup != nil {
				tt.setup()
			}

			err := ValidateConfig()
			if tt.wantError {
				if err == nil {
					t.Errorf("ValidateConfig() expected error, got nil")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateConfig() error = %v, want error containing %v", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateConfig() unexpected error: %v", err)
				}
			}
		})
	}
}
