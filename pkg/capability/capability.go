// Package capability fetches and applies FHIR CapabilityStatement
// metadata. The resource types and search parameters a server declares
// extend what the query validator recognizes.
package capability

import (
	"context"
	"fmt"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
	"github.com/bascanada/fhirquery/pkg/http"
	"github.com/bascanada/fhirquery/pkg/ty"
)

// SearchParam is one declared search parameter on a resource.
type SearchParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Resource is one rest.resource entry of a CapabilityStatement.
type Resource struct {
	Type        string        `json:"type"`
	SearchParam []SearchParam `json:"searchParam"`
}

// Rest is one rest entry (mode server or client).
type Rest struct {
	Mode     string     `json:"mode"`
	Resource []Resource `json:"resource"`
}

// Statement is the subset of a CapabilityStatement the validator cares
// about.
type Statement struct {
	ResourceType string `json:"resourceType"`
	FhirVersion  string `json:"fhirVersion"`
	Rest         []Rest `json:"rest"`
}

// ResourceTypes returns every resource type declared by the server.
func (s *Statement) ResourceTypes() []string {
	seen := make(ty.UniSet[string])
	var types []string
	for _, rest := range s.Rest {
		for _, res := range rest.Resource {
			if res.Type == "" || seen.Has(res.Type) {
				continue
			}
			seen.Add(res.Type)
			types = append(types, res.Type)
		}
	}
	return types
}

// SearchParams returns the declared search parameter names for a
// resource type, across all rest entries.
func (s *Statement) SearchParams(resourceType string) []string {
	seen := make(ty.UniSet[string])
	var names []string
	for _, rest := range s.Rest {
		for _, res := range rest.Resource {
			if res.Type != resourceType {
				continue
			}
			for _, sp := range res.SearchParam {
				if sp.Name == "" || seen.Has(sp.Name) {
					continue
				}
				seen.Add(sp.Name)
				names = append(names, sp.Name)
			}
		}
	}
	return names
}

// Apply extends the validator with the resource types the server
// declares. Type names double as reference-target qualifiers, so the
// modifier set grows with them.
func (s *Statement) Apply(v *search.Validator) {
	v.AddResourceTypes(s.ResourceTypes()...)
}

// Fetch retrieves {base}/metadata from the server and parses it.
func Fetch(ctx context.Context, client http.Client, auth http.Auth) (*Statement, error) {
	var stmt Statement
	if err := client.Get(ctx, "/metadata", nil, &stmt, auth); err != nil {
		return nil, fmt.Errorf("fetching capability statement: %w", err)
	}
	if stmt.ResourceType != "CapabilityStatement" {
		return nil, fmt.Errorf("unexpected resource type %q in metadata response", stmt.ResourceType)
	}
	return &stmt, nil
}
