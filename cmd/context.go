package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bascanada/fhirquery/pkg/config"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage configured FHIR servers",
}

var useContextCmd = &cobra.Command{
	Use:   "use [server-name]",
	Short: "Set the current active server",
	// Autocomplete for server names
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		// We use configPath if set, otherwise default loading mechanism
		cfg, _ := config.LoadConfig(configPath)
		var suggestions []string
		if cfg != nil {
			for name := range cfg.Servers {
				suggestions = append(suggestions, name)
			}
		}
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Help()
			return
		}
		name := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if _, ok := cfg.Servers[name]; !ok {
			fmt.Printf("Error: server '%s' not found in any loaded config.\n", name)
			os.Exit(1)
		}

		state := &config.State{CurrentServer: name}
		if err := config.SaveState(state); err != nil {
			fmt.Printf("Error saving state: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Switched to server \"%s\".\n", name)
	},
}

var listContextsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured servers",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		state, _ := config.LoadState()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tURL\tVERSION")

		// Sort keys for consistent output
		keys := make([]string, 0, len(cfg.Servers))
		for k := range cfg.Servers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, name := range keys {
			srv := cfg.Servers[name]
			prefix := " "
			if state != nil && name == state.CurrentServer {
				prefix = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", prefix, name, srv.URL, srv.Version)
		}
		w.Flush()
	},
}

func init() {
	contextCmd.AddCommand(useContextCmd)
	contextCmd.AddCommand(listContextsCmd)
	rootCmd.AddCommand(contextCmd)
}
