// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citescope CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citescope/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the loaded
// secret for key, otherwise "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the citescope CLI.
var rootCmd = &cobra.Command{
	Use:   "citescope",
	Short: "Compare a researcher's citations across OpenAlex and Semantic Scholar",
	Long: `citescope maps who cites a researcher. It queries OpenAlex and Semantic
Scholar, classifies every citing work as a self-citation, a collaborator
citation, or an independent citation, and renders a per-source comparison
with summary counts and a citing-author breakdown.

Use "authors" to pick the researcher's profile in each source, "explore" to
run the analysis, and "runs" to revisit archived results.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citescope.yaml or ~/.config/citescope/config.yaml)")
}

func initConfig() {
	// .env is optional; real keys usually live in .secrets/.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citescope")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citescope"))
		}
	}

	viper.SetEnvPrefix("CITESCOPE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
