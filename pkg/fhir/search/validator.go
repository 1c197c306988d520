// Package search validates and parses FHIR search query strings of the
// shape /Type[/id[/_history/ver]][?param=value&...]. Validation is total:
// every input yields a Result, never a panic, and a query with problems
// still gets a best-effort parse so callers can report everything at once.
package search

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bascanada/fhirquery/pkg/ty"
)

// Options configures a Validator. Strict is accepted and stored but
// reserved; no validation rule is conditioned on it yet.
type Options struct {
	Strict        bool
	ResourceTypes []string
	Modifiers     []string
}

// Validator holds the recognized resource-type and modifier sets. Both
// sets are lower-cased and guarded so configuration may be extended
// while validations are in flight.
type Validator struct {
	mu            sync.RWMutex
	strict        bool
	resourceTypes ty.UniSet[string]
	modifiers     ty.UniSet[string]
}

// New builds a Validator seeded with the built-in resource types and
// modifiers plus any custom ones from opts.
func New(opts Options) *Validator {
	v := &Validator{
		strict:        opts.Strict,
		resourceTypes: make(ty.UniSet[string]),
		modifiers:     make(ty.UniSet[string]),
	}
	v.AddModifiers(defaultModifiers...)
	v.AddResourceTypes(defaultResourceTypes...)
	v.AddResourceTypes(opts.ResourceTypes...)
	v.AddModifiers(opts.Modifiers...)
	return v
}

// Validate checks one query string against the grammar and returns all
// errors and warnings plus the structural decomposition. Parsed is nil
// only when the envelope itself is malformed.
func (v *Validator) Validate(query string) Result {
	var res Result

	env, issue := parseEnvelope(query)
	if issue != nil {
		res.addError(*issue)
		return res.finalize()
	}

	parsed := &ParsedQuery{
		ResourceType: env.resourceType,
		ResourceID:   env.resourceID,
		VersionID:    env.versionID,
		Parameters:   []ParsedParameter{},
	}
	res.Parsed = parsed

	// Custom resource types are legitimate, so unknown is only advisory.
	if env.resourceType != "" && !v.IsValidResourceType(env.resourceType) {
		res.addWarning(warningf("", "Unknown resource type %q", env.resourceType))
	}

	for _, tok := range splitParams(env.params) {
		rawName, rawValue, _ := strings.Cut(tok, "=")

		pn, nameIssues := v.parseParamName(rawName)
		res.add(nameIssues...)

		p := ParsedParameter{
			Name:        pn.name,
			Modifier:    pn.modifier,
			ChainedPath: pn.chain,
		}

		decoded, err := url.QueryUnescape(rawValue)
		if err != nil {
			p.Value = rawValue
			res.addError(errorf(pn.name, "Malformed percent-encoding in value for %q", pn.name))
		} else {
			p.Value = decoded
			res.add(v.validateValue(&p)...)
		}

		parsed.Parameters = append(parsed.Parameters, p)
	}

	res.add(checkCombinations(parsed.Parameters)...)

	return res.finalize()
}

// IsValid reports whether the query validates with no errors.
func (v *Validator) IsValid(query string) bool {
	return v.Validate(query).Valid
}

// IsValidResourceType reports whether the name is a recognized resource
// type, case-insensitively.
func (v *Validator) IsValidResourceType(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.resourceTypes.Has(strings.ToLower(name))
}

// IsValidModifier reports whether the name is a recognized search
// modifier, case-insensitively.
func (v *Validator) IsValidModifier(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.modifiers.Has(strings.ToLower(name))
}

// AddResourceTypes extends the recognized resource-type set. Each name
// is also added to the modifier set since reference-target qualifiers
// reuse type names.
func (v *Validator) AddResourceTypes(names ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		v.resourceTypes.Add(n)
		v.modifiers.Add(n)
	}
}

// AddModifiers extends the recognized modifier set.
func (v *Validator) AddModifiers(names ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		v.modifiers.Add(n)
	}
}

// ResourceTypes returns a snapshot of the recognized resource types.
func (v *Validator) ResourceTypes() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.resourceTypes.Values()
}

var std = New(Options{})

// Default returns the shared package-level validator.
func Default() *Validator { return std }

// Validate runs the shared validator against the query.
func Validate(query string) Result { return std.Validate(query) }

// IsValid runs the shared validator and reports overall validity.
func IsValid(query string) bool { return std.IsValid(query) }
