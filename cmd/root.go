// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:    "fhirquery",
	Short:  "Validate and inspect FHIR search queries",
	Long:   ``,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		// Check if config exists before showing generic help
		home, err := os.UserHomeDir()
		if err == nil {
			configPath := filepath.Join(home, ".fhirquery", "config.yaml")
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Println("Welcome to fhirquery!")
				fmt.Println("\nNo configuration found.")
				fmt.Println("   Run 'fhirquery configure' to get started with an interactive setup wizard.")
				fmt.Println("\nOr use 'fhirquery --help' to see all available options.")
				return
			}
		}
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config with preconfigured servers and validator tuning")
	rootCmd.PersistentFlags().StringVar(&logger.Path, "logging-path", "", "file to output logs of the application")
	rootCmd.PersistentFlags().StringVar(&logger.Level, "logging-level", "", "logging level to output INFO WARN ERROR DEBUG TRACE")
	rootCmd.PersistentFlags().BoolVar(&logger.Stdout, "logging-stdout", false, "output appplication log in the stdout")

	// Register completion for --logging-level flag
	_ = rootCmd.RegisterFlagCompletionFunc("logging-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(serverCmd)
}
