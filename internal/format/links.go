package format

import "strings"

// NormalizeLinks walks body (note body text, frontmatter already
// stripped) and rewrites every `[[...]]`/`![[...]]` span through
// normalizeLinkContent, leaving fenced and inline code regions
// untouched.
func NormalizeLinks(body string, idsOnly bool) string {
	var out strings.Builder
	i := 0
	n := len(body)

	for i < n {
		if strings.HasPrefix(body[i:], "```") {
			start := i
			i += 3
			for i < n && body[i] != '\n' {
				i++
			}
			if i < n {
				i++
			}
			for i < n {
				if strings.HasPrefix(body[i:], "```") {
					i += 3
					for i < n && body[i] != '\n' {
						i++
					}
					if i < n {
						i++
					}
					break
				}
				i++
			}
			out.WriteString(body[start:i])
			continue
		}

		if body[i] == '`' {
			start := i
			i++
			ticks := 1
			for i < n && body[i] == '`' {
				ticks++
				i++
			}
			closed := false
			for i < n {
				if body[i] == '`' {
					count := 0
					for i < n && body[i] == '`' {
						count++
						i++
					}
					if count == ticks {
						closed = true
						break
					}
				} else {
					i++
				}
			}
			out.WriteString(body[start:i])
			if !closed {
				break
			}
			continue
		}

		isTrans := strings.HasPrefix(body[i:], "![[")
		isLink := strings.HasPrefix(body[i:], "[[")
		if isTrans || isLink {
			linkStart := i
			if isTrans {
				i += 3
			} else {
				i += 2
			}
			contentStart := i
			for i < n && !strings.HasPrefix(body[i:], "]]") {
				i++
			}
			if i >= n {
				out.WriteString(body[linkStart:])
				break
			}
			content := body[contentStart:i]
			i += 2
			normalized := normalizeLinkContent(content, idsOnly)
			if isTrans {
				out.WriteString("![[" + normalized + "]]")
			} else {
				out.WriteString("[[" + normalized + "]]")
			}
			continue
		}

		out.WriteByte(body[i])
		i++
	}

	return out.String()
}

// normalizeLinkContent trims whitespace from an `[[...]]` span's
// interior, covering "id", "id|Title", "id#heading", "id#^label",
// "id#heading|Title", and "rel:name|id|Title" shapes.
func normalizeLinkContent(content string, idsOnly bool) string {
	content = strings.TrimSpace(content)

	relPrefix := ""
	if strings.HasPrefix(content, "rel:") {
		parts := strings.SplitN(content, "|", 3)
		if len(parts) >= 2 {
			relPrefix = strings.TrimSpace(parts[0]) + "|"
			content = strings.Join(parts[1:], "|")
		}
	}

	parts := strings.Split(content, "|")
	switch len(parts) {
	case 1:
		return relPrefix + cleanIDPart(strings.TrimSpace(parts[0]))
	case 2:
		idPart := cleanIDPart(strings.TrimSpace(parts[0]))
		title := strings.TrimSpace(parts[1])
		if idsOnly && title == strings.SplitN(idPart, "#", 2)[0] {
			return relPrefix + idPart
		}
		return relPrefix + idPart + "|" + title
	default:
		trimmed := make([]string, len(parts))
		for i, p := range parts {
			trimmed[i] = strings.TrimSpace(p)
		}
		return relPrefix + strings.Join(trimmed, "|")
	}
}

// cleanIDPart trims whitespace around the "#" or "#^" separator inside
// an id/anchor span without touching the rest of the content.
func cleanIDPart(idPart string) string {
	if idx := strings.Index(idPart, "#^"); idx >= 0 {
		id := strings.TrimSpace(idPart[:idx])
		label := strings.TrimSpace(idPart[idx+2:])
		return id + "#^" + label
	}
	if idx := strings.IndexByte(idPart, '#'); idx >= 0 {
		id := strings.TrimSpace(idPart[:idx])
		heading := strings.TrimSpace(idPart[idx+1:])
		return id + "#" + heading
	}
	return strings.TrimSpace(idPart)
}
