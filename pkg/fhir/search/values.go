package search

import "strings"

// validateValue applies the name-specific value rules to one parsed
// parameter. It may rewrite p.Value and p.Prefix when a comparison
// prefix is extracted.
func (v *Validator) validateValue(p *ParsedParameter) []Issue {
	if p.Value == "" {
		return []Issue{errorf(p.Name, "Empty value for parameter %q", p.Name)}
	}

	if p.Modifier == "missing" {
		if p.Value != "true" && p.Value != "false" {
			return []Issue{errorf(p.Name, "The :missing modifier on %q requires a value of \"true\" or \"false\", got %q", p.Name, p.Value)}
		}
		return nil
	}

	switch p.Name {
	case "_include", "_revinclude":
		return checkIncludeValue(p.Name, p.Value)
	case "_sort":
		return checkSortValue(p.Value)
	case "_count", "_offset":
		if !isDigits(p.Value) {
			return []Issue{errorf(p.Name, "%s must be a non-negative integer, got %q", p.Name, p.Value)}
		}
		return nil
	case "_summary":
		if !summaryValues[p.Value] {
			return []Issue{errorf(p.Name, "_summary must be one of true, false, text, data, count; got %q", p.Value)}
		}
		return nil
	case "_total":
		if !totalValues[p.Value] {
			return []Issue{errorf(p.Name, "_total must be one of none, estimate, accurate; got %q", p.Value)}
		}
		return nil
	}

	var issues []Issue

	// Comparison prefixes only make sense on ordered values, which all
	// start with a digit (dates, numbers, quantities).
	if !strings.HasPrefix(p.Name, "_") {
		extractPrefix(p)
	}

	if strings.Count(p.Value, "|") > 1 {
		issues = append(issues, warningf(p.Name, "Value for %q contains multiple | separators; expected at most system|code", p.Name))
	}

	return issues
}

// extractPrefix pulls a leading two-letter comparison prefix off the
// value when the remainder looks like an ordered value.
func extractPrefix(p *ParsedParameter) {
	if len(p.Value) < 3 {
		return
	}
	head := p.Value[:2]
	for _, prefix := range comparisonPrefixes {
		if head == prefix {
			rest := p.Value[2:]
			if rest[0] >= '0' && rest[0] <= '9' {
				p.Prefix = prefix
				p.Value = rest
			}
			return
		}
	}
}

// checkIncludeValue validates ResourceType:searchParam[:TargetType].
func checkIncludeValue(name, value string) []Issue {
	parts := strings.Split(value, ":")
	ok := len(parts) == 2 || len(parts) == 3
	if ok {
		ok = isResourceName(parts[0]) && isIdent(parts[1])
	}
	if ok && len(parts) == 3 {
		ok = isResourceName(parts[2])
	}
	if !ok {
		return []Issue{errorf(name, "Invalid %s value %q, expected ResourceType:searchParam[:TargetType]", name, value)}
	}
	return nil
}

// checkSortValue validates a comma-separated sort list; each item may
// carry a leading - for descending order.
func checkSortValue(value string) []Issue {
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimPrefix(item, "-")
		if !isSortItem(item) {
			return []Issue{errorf("_sort", "Invalid _sort item %q", item)}
		}
	}
	return nil
}

// checkCombinations runs the whole-query rules over the parsed list.
func checkCombinations(params []ParsedParameter) []Issue {
	var issues []Issue

	seen := map[string]int{}
	warned := map[string]bool{}
	for _, p := range params {
		key := p.Name
		if len(p.ChainedPath) > 0 {
			key += "." + strings.Join(p.ChainedPath, ".")
		}
		seen[key]++
		if seen[key] > 1 && !repeatableParams[p.Name] && !warned[key] {
			warned[key] = true
			issues = append(issues, warningf(p.Name, "Duplicate parameter %q; values will be OR'd", p.Name))
		}
	}

	hasOffset := false
	hasCount := false
	for _, p := range params {
		switch p.Name {
		case "_offset":
			hasOffset = true
		case "_count":
			hasCount = true
		}
	}
	if hasOffset && !hasCount {
		issues = append(issues, warningf("_offset", "Use of _offset without _count; paging behavior is undefined"))
	}

	return issues
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	pos := 0
	return readIdent(s, &pos) == s && s != ""
}

// isSortItem accepts identifier characters plus dots for chained sorts.
func isSortItem(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !isIdent(part) {
			return false
		}
	}
	return true
}
