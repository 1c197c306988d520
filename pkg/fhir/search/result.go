package search

import "fmt"

// Severity classifies an Issue as fatal or advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding. Errors invalidate the query,
// warnings never do.
type Issue struct {
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Parameter string   `json:"parameter,omitempty"`
	Position  int      `json:"position,omitempty"`
}

func errorf(parameter string, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityError, Parameter: parameter, Message: fmt.Sprintf(format, args...)}
}

func warningf(parameter string, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityWarning, Parameter: parameter, Message: fmt.Sprintf(format, args...)}
}

// ParsedParameter is one decoded name=value pair from the query string.
type ParsedParameter struct {
	Name        string   `json:"name"`
	Modifier    string   `json:"modifier,omitempty"`
	ChainedPath []string `json:"chainedPath,omitempty"`
	Value       string   `json:"value"`
	Prefix      string   `json:"prefix,omitempty"`
}

// ParsedQuery is the structural decomposition of a query string.
type ParsedQuery struct {
	ResourceType string            `json:"resourceType,omitempty"`
	ResourceID   string            `json:"resourceId,omitempty"`
	VersionID    string            `json:"versionId,omitempty"`
	Parameters   []ParsedParameter `json:"parameters"`
}

// Result is the outcome of validating one query string. Valid is always
// derived from Errors being empty and never set independently. Parsed is
// nil only when the envelope itself could not be parsed.
type Result struct {
	Valid    bool         `json:"valid"`
	Errors   []Issue      `json:"errors"`
	Warnings []Issue      `json:"warnings"`
	Parsed   *ParsedQuery `json:"parsed"`
}

func (r *Result) addError(issues ...Issue) {
	r.Errors = append(r.Errors, issues...)
}

func (r *Result) addWarning(issues ...Issue) {
	r.Warnings = append(r.Warnings, issues...)
}

// add routes issues to the error or warning list based on severity.
func (r *Result) add(issues ...Issue) {
	for _, issue := range issues {
		if issue.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, issue)
		} else {
			r.Errors = append(r.Errors, issue)
		}
	}
}

func (r *Result) finalize() Result {
	r.Valid = len(r.Errors) == 0
	if r.Errors == nil {
		r.Errors = []Issue{}
	}
	if r.Warnings == nil {
		r.Warnings = []Issue{}
	}
	return *r
}
