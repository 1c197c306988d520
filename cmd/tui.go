// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"scratchpad", "ui"},
	Short:   "Launch interactive query scratchpad",
	Long: `Launch an interactive Terminal User Interface for writing and
validating FHIR search queries.

The TUI provides:
  - Validation on every keystroke
  - The parsed structure of the query (type, id, parameters, chains)
  - A JSON view of the full result (Ctrl+j)
  - Copy of the result to the clipboard (Ctrl+y)

Examples:
  # Launch the scratchpad with the default validator
  fhirquery tui

  # Launch with custom resource types from a config
  fhirquery tui -c /path/to/config.yaml

  # Launch with the validator extended by a server's capabilities
  fhirquery tui -s my-hapi`,
	PreRun: onCommandStart,
	Run:    runTUI,
}

func runTUI(cmd *cobra.Command, args []string) {
	// A missing config just means the built-in validator.
	cfg, err := loadConfig(configPath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Tip: Run 'fhirquery configure' to set up a configuration.")
		os.Exit(1)
	}

	v := newValidator(cfg)
	if name := tuiServerName; name != "" {
		if err := applyServerCapability(context.Background(), cfg, name, v); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying server capability: %v\n", err)
			os.Exit(1)
		}
	}

	model := tui.New(v)

	// Create the bubbletea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Run the TUI
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

var tuiServerName string

func init() {
	tuiCmd.Flags().StringVarP(&tuiServerName, "server", "s", "", "Named server whose capability statement extends the validator")

	_ = tuiCmd.RegisterFlagCompletionFunc("server", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, directive := loadConfigForCompletion(cmd)
		if cfg == nil {
			return nil, directive
		}
		var suggestions []string
		for name := range cfg.Servers {
			suggestions = append(suggestions, name)
		}
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(tuiCmd)
}
