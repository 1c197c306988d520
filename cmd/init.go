package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bascanada/fhirquery/pkg/config"
	httpPkg "github.com/bascanada/fhirquery/pkg/http"
	"github.com/bascanada/fhirquery/pkg/log"
)

var (
	// validate options
	serverName string
	strictMode bool
	noColor    bool
	forceColor bool

	jsonOutput bool

	logger log.LoggerOptions

	debugHttp bool
)

func onCommandStart(cmd *cobra.Command, args []string) {
	log.ConfigureLogger(&logger)
	// enable HTTP debug logs when requested
	httpPkg.SetDebug(debugHttp)
}

// loadConfigForCompletion is a helper function that loads the configuration
// for shell completion functions. It handles errors gracefully by returning
// the appropriate shell completion directive.
func loadConfigForCompletion(cmd *cobra.Command) (*config.Config, cobra.ShellCompDirective) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		// Cobra will report the error to the user's shell.
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg, cobra.ShellCompDirectiveDefault
}

func init() {

	// SERVER SELECTION
	validateCmd.PersistentFlags().StringVarP(&serverName, "server", "s", "", "Named server whose capability statement extends the validator")

	// Register completion function for the --server flag
	_ = validateCmd.RegisterFlagCompletionFunc("server", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, directive := loadConfigForCompletion(cmd)
		if cfg == nil {
			return nil, directive
		}

		var suggestions []string
		for name, srv := range cfg.Servers {
			// Provide a description alongside the completion
			// Format: "value\tdescription"
			description := fmt.Sprintf("(%s)", srv.URL)
			suggestions = append(suggestions, fmt.Sprintf("%s\t%s", name, description))
		}

		// ShellCompDirectiveNoFileComp prevents the shell from suggesting local files
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	})

	// VALIDATION
	validateCmd.PersistentFlags().BoolVar(&strictMode, "strict", false, "Enable strict validation")
	validateCmd.PersistentFlags().BoolVar(&debugHttp, "debug-http", false, "enable HTTP debug logs (prints request paths and masked headers)")

	// OUTPUT FORMATTING
	validateCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output validation results as JSON")
	validateCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	validateCmd.PersistentFlags().BoolVar(&forceColor, "color", false, "Force colored output even when not a terminal")
}
