// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/ty"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive wizard to generate a configuration file",
	Long: `Launch an interactive wizard to help you create your first fhirquery configuration.

This command will guide you through registering a FHIR server (URL,
version, authentication) and generate a ready-to-use config file.

Example:
  fhirquery configure
  fhirquery configure -c /path/to/config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConfigWizard(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigWizard(cfgPath string) error {
	var (
		serverName  string
		endpoint    string
		fhirVersion string
		authType    string
		token       string
		username    string
		password    string
		headerName  string
		headerValue string
		confirm     bool
	)

	// Welcome message
	fmt.Println("🚀 Welcome to fhirquery configuration wizard!")
	fmt.Println()

	// 1. Basic Information Form
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name for this server").
				Description("A friendly name to identify this FHIR server (e.g., prod-hapi, local-r4)").
				Placeholder("my-fhir-server").
				Value(&serverName).
				Validate(func(str string) error {
					if strings.TrimSpace(str) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					if strings.ContainsAny(str, " \t\n") {
						return fmt.Errorf("name cannot contain whitespace")
					}
					return nil
				}),

			huh.NewInput().
				Title("Server base URL").
				Description("Full URL to the FHIR base endpoint").
				Placeholder("https://hapi.fhir.org/baseR4").
				Value(&endpoint).
				Validate(func(str string) error {
					if !strings.HasPrefix(str, "http://") && !strings.HasPrefix(str, "https://") {
						return fmt.Errorf("URL must start with http:// or https://")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("FHIR version").
				Description("Version hint for display and prefix handling").
				Options(
					huh.NewOption("R4", "r4"),
					huh.NewOption("R3 (STU3)", "r3"),
				).
				Value(&fhirVersion),

			huh.NewSelect[string]().
				Title("Authentication method").
				Options(
					huh.NewOption("None", "none"),
					huh.NewOption("Bearer Token", "bearer"),
					huh.NewOption("Basic (Username/Password)", "basic"),
					huh.NewOption("Custom Header", "header"),
				).
				Value(&authType),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	// 2. Auth details based on selection
	switch authType {
	case "bearer":
		authForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Bearer Token").
					Description("Sent as 'Authorization: Bearer <token>' on every request").
					Value(&token).
					EchoMode(huh.EchoModePassword),
			),
		)
		if err := authForm.Run(); err != nil {
			return err
		}
	case "basic":
		authForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&username),
				huh.NewInput().
					Title("Password").
					Value(&password).
					EchoMode(huh.EchoModePassword),
			),
		)
		if err := authForm.Run(); err != nil {
			return err
		}
	case "header":
		authForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Header Name").
					Placeholder("X-Api-Key").
					Value(&headerName),
				huh.NewInput().
					Title("Header Value").
					Value(&headerValue).
					EchoMode(huh.EchoModePassword),
			),
		)
		if err := authForm.Run(); err != nil {
			return err
		}
	}

	// 3. Construct the Config Object
	cfg := config.Config{
		Servers: config.Servers{},
	}

	cfg.Servers[serverName] = config.Server{
		URL:     endpoint,
		Version: fhirVersion,
		Headers: buildServerHeaders(authType, token, username, password, headerName, headerValue),
	}

	// 4. Preview Configuration
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	fmt.Println("\n" + strings.Repeat("─", 60))
	fmt.Println("📝 Generated Configuration:")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(string(out))
	fmt.Println(strings.Repeat("─", 60) + "\n")

	// 5. Confirm and Save
	targetPath := resolveWizardTarget(cfgPath)

	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Description(fmt.Sprintf("Target: %s", targetPath)).
				Affirmative("Yes, save it!").
				Negative("No, cancel").
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("❌ Configuration not saved. Run 'fhirquery configure' again when ready.")
		return nil
	}

	// Check if config already exists
	isNewFile := true
	if _, err := os.Stat(targetPath); err == nil {
		isNewFile = false
	}

	// Display file status before saving
	if isNewFile {
		fmt.Printf("\n📄 Creating new configuration file: %s\n", targetPath)
	} else {
		fmt.Printf("\n📝 Updating existing configuration file: %s\n", targetPath)
	}

	// Merge with an existing config if one is already there
	toSave := &cfg
	existingCfg, err := config.LoadConfig(targetPath)
	if err == nil && existingCfg != nil {
		for k, v := range cfg.Servers {
			existingCfg.Servers[k] = v
		}
		toSave = existingCfg
	}

	if err := toSave.Save(targetPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Success message with next steps
	fmt.Printf("\n✅ Configuration saved to %s\n\n", targetPath)
	fmt.Println("🎉 You're all set! Try it now:")
	fmt.Printf("   fhirquery validate -s %s \"/Patient?name=Jan\"\n", serverName)
	fmt.Printf("   fhirquery context use %s\n\n", serverName)

	return nil
}

// resolveWizardTarget picks the config path from flag, env var, or default.
func resolveWizardTarget(cfgPath string) string {
	if strings.TrimSpace(cfgPath) != "" {
		return cfgPath
	}
	if envPath := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultConfigFile
	}
	return filepath.Join(home, config.DefaultConfigDir, config.DefaultConfigFile)
}

func buildServerHeaders(authType, token, username, password, headerName, headerValue string) ty.MS {
	headers := ty.MS{}

	switch authType {
	case "bearer":
		headers["Authorization"] = "Bearer " + token
	case "basic":
		encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers["Authorization"] = "Basic " + encoded
	case "header":
		if headerName != "" {
			headers[headerName] = headerValue
		}
	}

	if len(headers) == 0 {
		return nil
	}
	return headers
}
