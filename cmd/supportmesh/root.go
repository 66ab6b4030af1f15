package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/supportmesh/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "supportmesh",
	Short:         "Supportmesh routes support requests through tiered LLM agents",
	Long:          `Supportmesh classifies a customer message by tier and issue, routes it to the billing, vip or standard agent and lets the agent call mock support tools until it produces a final answer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a supportmesh YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("provider", "", "Model provider (openai, anthropic, scripted)")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Dotenv files to load (default .env)")
}

// loadConfig resolves configuration in order: defaults, config file,
// SUPPORTMESH_* environment, command line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.FindConfig(explicit)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider, _ = cmd.Flags().GetString("provider")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
