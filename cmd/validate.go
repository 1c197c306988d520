package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/fhir/search"
	"github.com/bascanada/fhirquery/pkg/printer"
)

var validateCmd = &cobra.Command{
	Use:   "validate [query...]",
	Short: "Validate FHIR search query strings",
	Long: `Validate one or more FHIR search query strings against the search
grammar, reporting every error and warning along with the parsed
structure.

Examples:
  # Validate a single query
  fhirquery validate "/Patient?name=Jan&_count=10"

  # Validate several queries at once
  fhirquery validate "/Patient/123" "/Observation?code=1234-5&_sort=-date"

  # Machine-readable output
  fhirquery validate --json "/Patient?birthdate=ge2020-01-01"

  # Extend the validator with a server's capability statement
  fhirquery validate -s my-hapi "/CustomProfile?name:exact=foo"`,
	PreRun: onCommandStart,
	Args:   cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// A missing config is fine for bare validation, a broken one is not.
		cfg, err := loadConfig(configPath)
		if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		initOutputColor(cfg)

		v := newValidator(cfg)
		if name := resolveServerName(); name != "" {
			if err := applyServerCapability(context.Background(), cfg, name, v); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
		}

		allValid, err := RunValidate(os.Stdout, v, args, jsonOutput)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		if !allValid {
			os.Exit(1)
		}
	},
}

// initOutputColor wires the explicit flags and config into color
// detection. Flags win over config, config wins over detection.
func initOutputColor(cfg *config.Config) {
	var explicit *bool
	switch {
	case noColor:
		f := false
		explicit = &f
	case forceColor:
		t := true
		explicit = &t
	case cfg != nil && cfg.Output.Color != nil:
		explicit = cfg.Output.Color
	}
	printer.InitColorState(explicit, os.Stdout)
}

// RunValidate validates each query and writes the reports to out. It
// returns whether every query validated cleanly.
func RunValidate(out io.Writer, v *search.Validator, queries []string, asJSON bool) (bool, error) {
	allValid := true

	for i, query := range queries {
		res := v.Validate(query)
		if !res.Valid {
			allValid = false
		}

		if asJSON {
			if err := printer.PrintJSON(out, res); err != nil {
				return allValid, err
			}
			continue
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		printer.PrintReport(out, query, res)
	}

	return allValid, nil
}
