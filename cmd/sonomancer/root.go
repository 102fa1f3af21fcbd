package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sonomancer/internal/api"
	"sonomancer/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sonomancer",
	Short: "Ambient soundscape finder for book chapters",
	Long: `Sonomancer matches book chapters to ambient soundscapes.

Upload an EPUB or PDF, pick a chapter, and Sonomancer samples the text,
classifies its atmosphere with an LLM, searches for long-form ambient
videos, and returns the best match with a short explanation.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.sonomancer/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Load .env and set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
