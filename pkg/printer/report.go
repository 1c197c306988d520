// Package printer renders validation results for the terminal, either
// as a colored human report or as (optionally colorized) JSON.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/fatih/color"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
)

var (
	validColor   = color.New(color.FgGreen, color.Bold)
	invalidColor = color.New(color.FgRed, color.Bold)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// PrintReport writes a human-readable report for one validated query.
func PrintReport(w io.Writer, query string, res search.Result) {
	if res.Valid {
		validColor.Fprint(w, "VALID")
	} else {
		invalidColor.Fprint(w, "INVALID")
	}
	fmt.Fprintf(w, "  %s\n", query)

	for _, issue := range res.Errors {
		errorColor.Fprint(w, "  error   ")
		fmt.Fprintln(w, issueLine(issue))
	}
	for _, issue := range res.Warnings {
		warningColor.Fprint(w, "  warning ")
		fmt.Fprintln(w, issueLine(issue))
	}

	if res.Parsed != nil && res.Parsed.ResourceType != "" {
		parts := []string{"type=" + res.Parsed.ResourceType}
		if res.Parsed.ResourceID != "" {
			parts = append(parts, "id="+res.Parsed.ResourceID)
		}
		if res.Parsed.VersionID != "" {
			parts = append(parts, "version="+res.Parsed.VersionID)
		}
		parts = append(parts, fmt.Sprintf("parameters=%d", len(res.Parsed.Parameters)))
		dimColor.Fprintf(w, "  %s\n", strings.Join(parts, " "))
	}
}

func issueLine(issue search.Issue) string {
	if issue.Parameter != "" {
		return fmt.Sprintf("[%s] %s", issue.Parameter, issue.Message)
	}
	return issue.Message
}

// PrintJSON writes the result as JSON, colorized when the terminal
// supports it.
func PrintJSON(w io.Writer, res search.Result) error {
	if IsColorEnabled() {
		// colorjson works on generic maps, so round-trip through encoding/json.
		raw, err := json.Marshal(res)
		if err != nil {
			return err
		}
		var obj map[string]interface{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return err
		}
		f := colorjson.NewFormatter()
		f.Indent = 2
		out, err := f.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
