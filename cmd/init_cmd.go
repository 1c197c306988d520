package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/ty"
)

var format string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Run: func(cmd *cobra.Command, args []string) {
		defaultConfig := config.Config{
			Servers: config.Servers{
				"local-hapi": {
					URL:     "http://localhost:8080/fhir",
					Version: "r4",
					Headers: ty.MS{
						"Authorization": "Bearer changeme",
					},
				},
			},
			Validator: config.ValidatorConfig{
				CustomResourceTypes: []string{},
				CustomModifiers:     []string{},
			},
		}

		var (
			data []byte
			err  error
		)

		fileName := "config." + format

		switch format {
		case "json":
			data, err = json.MarshalIndent(defaultConfig, "", "  ")
		case "yaml":
			data, err = yaml.Marshal(defaultConfig)
		default:
			fmt.Printf("unsupported format: %s\n", format)
			os.Exit(1)
		}

		if err != nil {
			fmt.Printf("failed to marshal config: %v\n", err)
			os.Exit(1)
		}

		if err := os.WriteFile(fileName, data, 0644); err != nil {
			fmt.Printf("failed to write config file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("created config file: %s\n", fileName)
	},
}

func init() {
	initCmd.Flags().StringVar(&format, "format", "json", "config file format (json or yaml)")
	rootCmd.AddCommand(initCmd)
}
