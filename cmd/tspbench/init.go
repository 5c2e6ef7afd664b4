package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively set up tspbench configuration",
	Long:  `Runs an interactive wizard for the solver path, plots directory, history store and Slack notifications, then writes config.yaml.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Welcome to tspbench setup!")
	fmt.Fprintln(out, "--------------------------")

	answers := struct {
		SolverPath   string
		PlotsDir     string
		StoreType    string
		StorePath    string
		PostgresDSN  string
		EnableSlack  bool
		SlackChannel string
		SlackToken   string
		WebhookURL   string
		SaveToEnv    bool
	}{}

	// 1. Solver binary
	err := askOne(&survey.Input{
		Message: "Path to the solver binary:",
		Default: viper.GetString("solver.path"),
	}, &answers.SolverPath)
	if err != nil {
		return err
	}

	// 2. Plots directory
	err = askOne(&survey.Input{
		Message: "Directory for generated plots:",
		Default: viper.GetString("plots.dir"),
	}, &answers.PlotsDir)
	if err != nil {
		return err
	}

	// 3. History store
	err = askOne(&survey.Select{
		Message: "Choose a history store backend:",
		Options: []string{"sqlite", "postgres"},
		Default: "sqlite",
	}, &answers.StoreType)
	if err != nil {
		return err
	}

	if answers.StoreType == "postgres" {
		err = askOne(&survey.Input{
			Message: "Postgres DSN:",
			Default: "postgres://localhost/tspbench?sslmode=disable",
		}, &answers.PostgresDSN)
	} else {
		err = askOne(&survey.Input{
			Message: "SQLite database file:",
			Default: viper.GetString("store.path"),
		}, &answers.StorePath)
	}
	if err != nil {
		return err
	}

	// 4. Notifications
	err = askOne(&survey.Confirm{
		Message: "Enable Slack notifications?",
		Default: false,
	}, &answers.EnableSlack)
	if err != nil {
		return err
	}

	if answers.EnableSlack {
		err = askOne(&survey.Input{
			Message: "Slack channel:",
			Default: "#benchmarks",
		}, &answers.SlackChannel)
		if err != nil {
			return err
		}
		err = askOne(&survey.Password{
			Message: "Slack bot token (leave empty to use a webhook):",
		}, &answers.SlackToken)
		if err != nil {
			return err
		}
		if answers.SlackToken == "" {
			err = askOne(&survey.Input{
				Message: "Slack webhook URL:",
			}, &answers.WebhookURL)
			if err != nil {
				return err
			}
		} else {
			err = askOne(&survey.Confirm{
				Message: "Save the Slack token to a local .env file?",
				Default: true,
			}, &answers.SaveToEnv)
			if err != nil {
				return err
			}
		}
	}

	// --- Saving Configuration ---

	viper.Set("solver.path", answers.SolverPath)
	viper.Set("plots.dir", answers.PlotsDir)
	viper.Set("store.type", answers.StoreType)
	if answers.StoreType == "postgres" {
		viper.Set("store.postgres_dsn", answers.PostgresDSN)
	} else {
		viper.Set("store.path", answers.StorePath)
	}
	viper.Set("notifications.slack.enabled", answers.EnableSlack)
	if answers.EnableSlack {
		viper.Set("notifications.slack.channel", answers.SlackChannel)
		if answers.WebhookURL != "" {
			viper.Set("notifications.slack.webhook_url", answers.WebhookURL)
		}
	}

	if err := viper.WriteConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := viper.SafeWriteConfigAs("config.yaml"); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			fmt.Fprintln(out, "Configuration saved to config.yaml")
		} else {
			return fmt.Errorf("failed to write config: %w", err)
		}
	} else {
		fmt.Fprintf(out, "Configuration saved to %s\n", viper.ConfigFileUsed())
	}

	// Write to .env
	if answers.SaveToEnv && answers.SlackToken != "" {
		envLine := fmt.Sprintf("SLACK_BOT_USER_TOKEN=%s", answers.SlackToken)

		existingEnv, _ := os.ReadFile(".env")
		if strings.Contains(string(existingEnv), "SLACK_BOT_USER_TOKEN=") {
			fmt.Fprintln(out, "Note: SLACK_BOT_USER_TOKEN already exists in .env, skipping.")
			return nil
		}

		f, err := os.OpenFile(".env", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open .env: %w", err)
		}
		defer f.Close()

		content := ""
		if len(existingEnv) > 0 && !strings.HasSuffix(string(existingEnv), "\n") {
			content = "\n"
		}
		content += envLine + "\n"
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write .env: %w", err)
		}
		fmt.Fprintln(out, "Secrets saved to .env")
	}

	return nil
}
