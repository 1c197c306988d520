package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sha1ver is overridden at build time via -ldflags.
var sha1ver = "develop"

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the application",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(sha1ver)
	},
}
