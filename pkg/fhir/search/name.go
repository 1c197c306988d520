package search

// parsedName is the decomposition of the text left of = in a parameter.
type parsedName struct {
	name     string
	modifier string
	chain    []string
}

// parseParamName decomposes one raw parameter name. Two shapes are
// recognized, checked in order:
//
//	chained/typed: base[:TypeQualifier](.segment)*[:modifier]
//	simple:        base[:modifier]
//
// The word after the first colon discriminates the shapes: capitalized
// means a resource-type qualifier opening a chain, lowercase means a
// plain modifier. When the raw text matches neither shape the raw text
// is kept as the name so sibling parameters can still be checked. An
// unknown trailing modifier is a fatal error but the decomposition is
// still returned.
func (v *Validator) parseParamName(raw string) (parsedName, []Issue) {
	pos := 0
	base := readIdent(raw, &pos)
	if base == "" {
		return parsedName{name: raw}, []Issue{errorf(raw, "Invalid parameter name: %q", raw)}
	}

	pn := parsedName{name: base}

	if pos == len(raw) {
		return pn, nil
	}

	// Optional type qualifier or simple modifier after the first colon.
	if raw[pos] == ':' {
		pos++
		word := readIdent(raw, &pos)
		if word == "" {
			return parsedName{name: raw}, []Issue{errorf(raw, "Invalid parameter name: %q", raw)}
		}
		if isCapitalized(word) {
			pn.chain = append(pn.chain, word)
		} else {
			// Simple form, the modifier must end the name.
			if pos != len(raw) {
				return parsedName{name: raw}, []Issue{errorf(raw, "Invalid parameter name: %q", raw)}
			}
			pn.modifier = word
			return pn, v.checkModifier(pn)
		}
	}

	// Dot-separated chain segments.
	for pos < len(raw) && raw[pos] == '.' {
		pos++
		segment := readIdent(raw, &pos)
		if segment == "" {
			return parsedName{name: raw}, []Issue{errorf(raw, "Invalid parameter name: %q", raw)}
		}
		pn.chain = append(pn.chain, segment)
	}

	// Optional modifier on the terminal segment.
	if pos < len(raw) && raw[pos] == ':' {
		pos++
		word := readIdent(raw, &pos)
		if word == "" || pos != len(raw) {
			return parsedName{name: raw}, []Issue{errorf(raw, "Invalid parameter name: %q", raw)}
		}
		pn.modifier = word
	}

	if pos != len(raw) {
		return parsedName{name: raw}, []Issue{errorf(raw, "Invalid parameter name: %q", raw)}
	}

	return pn, v.checkModifier(pn)
}

func (v *Validator) checkModifier(pn parsedName) []Issue {
	if pn.modifier == "" {
		return nil
	}
	if !v.IsValidModifier(pn.modifier) {
		return []Issue{errorf(pn.name, "Unknown modifier %q on parameter %q", pn.modifier, pn.name)}
	}
	return nil
}

// readIdent consumes an identifier (letters, digits, -, _) starting at
// *pos and advances *pos past it.
func readIdent(s string, pos *int) string {
	start := *pos
	for *pos < len(s) {
		ch := s[*pos]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' || ch == '_' {
			*pos++
		} else {
			break
		}
	}
	return s[start:*pos]
}

func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
