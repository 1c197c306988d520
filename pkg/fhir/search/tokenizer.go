package search

// splitParams splits a raw parameter string into name=value tokens,
// breaking on & only at paren/bracket nesting depth zero so grouped
// values stay intact. Depth never goes below zero; a stray closing
// bracket is an ordinary character. Empty tokens are dropped.
func splitParams(raw string) []string {
	var tokens []string
	depth := 0
	start := 0

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '&':
			if depth == 0 {
				if tok := raw[start:i]; tok != "" {
					tokens = append(tokens, tok)
				}
				start = i + 1
			}
		}
	}

	if tok := raw[start:]; tok != "" {
		tokens = append(tokens, tok)
	}
	return tokens
}
