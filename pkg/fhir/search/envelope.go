package search

import "strings"

// envelope is the non-parameter portion of a query: resource type,
// optional id, optional version, plus the raw parameter string.
type envelope struct {
	resourceType string
	resourceID   string
	versionID    string
	params       string
}

// parseEnvelope recognizes the outer query shapes:
//
//	/Type
//	/Type/id
//	/Type/id/_history/version
//
// each optionally preceded by /fhir or /fhir/r3 / /fhir/r4, each
// optionally followed by ?params. A string with no path segment but
// containing = is a bare parameter string. Anything else is a fatal
// format error and the returned envelope is nil.
func parseEnvelope(query string) (*envelope, *Issue) {
	q := strings.TrimSpace(query)
	if q == "" {
		return &envelope{}, nil
	}

	path := q
	params := ""
	if idx := strings.Index(q, "?"); idx != -1 {
		path = q[:idx]
		params = q[idx+1:]
	}

	if path == "" {
		return &envelope{params: params}, nil
	}

	// No path portion at all, just name=value pairs.
	if !strings.HasPrefix(path, "/") {
		if strings.Contains(path, "=") && params == "" {
			return &envelope{params: path}, nil
		}
		issue := errorf("", "Invalid query format: %q", query)
		return nil, &issue
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")

	// Optional service prefix.
	if len(segments) > 1 && strings.EqualFold(segments[0], "fhir") {
		segments = segments[1:]
		if len(segments) > 1 && (strings.EqualFold(segments[0], "r3") || strings.EqualFold(segments[0], "r4")) {
			segments = segments[1:]
		}
	}

	env := &envelope{params: params}
	switch len(segments) {
	case 1:
		env.resourceType = segments[0]
	case 2:
		env.resourceType = segments[0]
		env.resourceID = segments[1]
	case 4:
		if segments[2] != "_history" {
			issue := errorf("", "Invalid query format: %q", query)
			return nil, &issue
		}
		env.resourceType = segments[0]
		env.resourceID = segments[1]
		env.versionID = segments[3]
	default:
		issue := errorf("", "Invalid query format: %q", query)
		return nil, &issue
	}

	if !isResourceName(env.resourceType) ||
		(env.resourceID != "" && !isIDToken(env.resourceID)) ||
		(env.versionID != "" && !isIDToken(env.versionID)) {
		issue := errorf("", "Invalid query format: %q", query)
		return nil, &issue
	}

	return env, nil
}

// isResourceName reports whether s looks like a resource type name:
// a letter followed by letters and digits.
func isResourceName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' {
			continue
		}
		if i > 0 && ch >= '0' && ch <= '9' {
			continue
		}
		return false
	}
	return true
}

// isIDToken reports whether s is a legal id or version id token.
func isIDToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' {
			continue
		}
		if ch == '.' || ch == '-' || ch == '_' {
			continue
		}
		return false
	}
	return true
}
