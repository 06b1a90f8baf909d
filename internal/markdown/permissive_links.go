package markdown

import "strings"

// extractPermissiveLinks scans for link-shaped constructs whose destinations
// contain whitespace. CommonMark rejects those, so they never appear in the
// Goldmark AST, but they still break the rendered site.
func extractPermissiveLinks(body []byte) []Link {
	lines := strings.Split(string(body), "\n")

	inCodeBlock := false
	activeFence := ""

	out := make([]Link, 0)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		clean := stripInlineCodeSpans(line)

		for _, dest := range scanInlineDestinations(clean, true) {
			out = append(out, Link{Kind: LinkKindImage, Destination: dest})
		}
		for _, dest := range scanInlineDestinations(clean, false) {
			out = append(out, Link{Kind: LinkKindInline, Destination: dest})
		}
		if dest, ok := scanReferenceDefinition(clean); ok {
			out = append(out, Link{Kind: LinkKindReferenceDefinition, Destination: dest})
		}
	}

	return out
}

func containsWhitespace(s string) bool {
	return strings.ContainsAny(s, " \t")
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

func stripInlineCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '`' {
			out.WriteByte(s[i])
			i++
			continue
		}

		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}

		marker := strings.Repeat("`", run)
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel == -1 {
			// Unclosed code span; keep the backticks and continue.
			out.WriteString(marker)
			i += run
			continue
		}

		// Skip the entire code span, including delimiters.
		i = i + run + closeRel + run
	}

	return out.String()
}

// scanInlineDestinations finds `](dest)` (or `![...](dest)` when image is
// true) occurrences whose destination contains whitespace.
func scanInlineDestinations(line string, image bool) []string {
	var dests []string

	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}

		open := findLinkTextStart(line, i)
		if open == -1 {
			continue
		}
		isImage := open > 0 && line[open-1] == '!'
		if isImage != image {
			continue
		}

		end := strings.Index(line[i+2:], ")")
		if end == -1 {
			continue
		}
		dest := line[i+2 : i+2+end]

		if containsWhitespace(dest) {
			dests = append(dests, dest)
		}
	}

	return dests
}

func findLinkTextStart(line string, closeBracketPos int) int {
	for j := closeBracketPos - 1; j >= 0; j-- {
		if line[j] == '[' {
			return j
		}
	}
	return -1
}

// scanReferenceDefinition matches `[label]: dest` lines with a whitespace
// destination. Footnote definitions ([^1]: ...) are not reference links.
func scanReferenceDefinition(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return "", false
	}

	label, after, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return "", false
	}
	if strings.HasPrefix(strings.TrimSpace(label), "[^") {
		return "", false
	}

	rest := strings.TrimSpace(after)
	if rest == "" {
		return "", false
	}

	dest := rest
	if before, _, ok := strings.Cut(rest, " \""); ok {
		dest = before
	} else if before, _, ok := strings.Cut(rest, " '"); ok {
		dest = before
	}

	dest = strings.TrimSpace(dest)
	if dest == "" || !containsWhitespace(dest) {
		return "", false
	}

	return dest, true
}
