package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bascanada/fhirquery/pkg/config"
)

var mcpCmd = &cobra.Command{
	Use:    "mcp",
	Short:  "Starts a MCP server",
	Long:   `Starts a MCP server over stdio, exposing query validation as tools for LLM agents.`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		bundle, err := BuildMCPServer(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		if err := mcpserver.ServeStdio(bundle.Server); err != nil {
			fmt.Fprintln(os.Stderr, "mcp server error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// MCPServerBundle carries the MCP server plus its tool handlers so
// tests can invoke tools directly without a transport.
type MCPServerBundle struct {
	Server       *mcpserver.MCPServer
	ToolHandlers map[string]mcpserver.ToolHandlerFunc
}

// BuildMCPServer assembles the MCP server around a validator built
// from the config. A nil config yields the built-in validator.
func BuildMCPServer(cfg *config.Config) (*MCPServerBundle, error) {
	v := newValidator(cfg)

	s := mcpserver.NewMCPServer(
		"fhirquery",
		sha1ver,
		mcpserver.WithToolCapabilities(true),
	)

	bundle := &MCPServerBundle{
		Server:       s,
		ToolHandlers: map[string]mcpserver.ToolHandlerFunc{},
	}

	addTool := func(tool mcp.Tool, handler mcpserver.ToolHandlerFunc) {
		s.AddTool(tool, handler)
		bundle.ToolHandlers[tool.Name] = handler
	}

	addTool(
		mcp.NewTool("validate_query",
			mcp.WithDescription(`Validate a FHIR search query string such as "/Patient?name=Jan&_count=10". Returns all errors and warnings plus the parsed structure (resource type, id, parameters, modifiers, chains).`),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The FHIR search query string to validate"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query, err := request.RequireString("query")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			res := v.Validate(query)
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(string(data)), nil
		},
	)

	addTool(
		mcp.NewTool("list_resource_types",
			mcp.WithDescription("List every FHIR resource type the validator recognizes, including custom types from the configuration."),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			types := v.ResourceTypes()
			sort.Strings(types)
			data, err := json.Marshal(types)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(string(data)), nil
		},
	)

	addTool(
		mcp.NewTool("list_servers",
			mcp.WithDescription("List the FHIR servers registered in the fhirquery configuration."),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type serverInfo struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Version string `json:"version,omitempty"`
			}

			var servers []serverInfo
			if cfg != nil {
				for name, srv := range cfg.Servers {
					servers = append(servers, serverInfo{Name: name, URL: srv.URL, Version: srv.Version})
				}
			}
			sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })

			data, err := json.Marshal(servers)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(string(data)), nil
		},
	)

	return bundle, nil
}
