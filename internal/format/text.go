package format

import (
	"regexp"
	"strings"
)

// EOLStyle selects a line-ending normalization target.
type EOLStyle string

const (
	EOLPreserve EOLStyle = ""
	EOLLF       EOLStyle = "lf"
	EOLCRLF     EOLStyle = "crlf"
)

// TextOptions configures NormalizeText.
type TextOptions struct {
	Wrap           int // column width for paragraph wrapping; 0 disables
	EOL            EOLStyle
	StripTrailing  bool
	EnsureFinalEOL bool
}

var (
	headingLineRe = regexp.MustCompile(`^#{1,6}\s`)
	listLineRe    = regexp.MustCompile(`^\s*([-*+]\s|\d+\.\s)`)
	hrLineRe      = regexp.MustCompile(`^\s*[-*_]{3,}\s*$`)
)

// NormalizeText applies paragraph wrapping, line-ending normalization,
// trailing-whitespace stripping, and final-newline enforcement to body,
// in that order. Code fences, headings, lists, blockquotes, horizontal
// rules, and "$$" math blocks are left untouched by wrapping.
func NormalizeText(body string, opts TextOptions) string {
	result := body

	if opts.Wrap > 0 {
		result = wrapParagraphs(result, opts.Wrap)
	}

	switch opts.EOL {
	case EOLLF:
		result = toLF(result)
	case EOLCRLF:
		result = strings.ReplaceAll(toLF(result), "\n", "\r\n")
	}

	if opts.StripTrailing {
		result = stripTrailingWhitespace(result)
	}

	if opts.EnsureFinalEOL && result != "" && !strings.HasSuffix(result, "\n") {
		if opts.EOL == EOLCRLF {
			result += "\r\n"
		} else {
			result += "\n"
		}
	}

	return result
}

func toLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

func stripTrailingWhitespace(s string) string {
	lines := splitKeepEnds(s)
	var b strings.Builder
	for _, line := range lines {
		content, ending := splitLineEnding(line)
		b.WriteString(strings.TrimRight(content, " \t"))
		b.WriteString(ending)
	}
	return b.String()
}

// splitLineEnding separates a line's content from its trailing "\r\n",
// "\n", or "" line ending.
func splitLineEnding(line string) (content, ending string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

// splitKeepEnds splits s into lines, each retaining its own line
// ending, mirroring Python's str.splitlines(keepends=True).
func splitKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// wrapParagraphs rewraps plain paragraph text at width columns while
// passing code fences, headings, list items, blockquotes, horizontal
// rules, blank lines, and "$$" math blocks through verbatim.
func wrapParagraphs(text string, width int) string {
	lines := splitKeepEnds(text)
	var out []string
	i := 0

	isSpecial := func(stripped string) bool {
		return strings.HasPrefix(stripped, "```") ||
			headingLineRe.MatchString(stripped) ||
			listLineRe.MatchString(stripped) ||
			strings.HasPrefix(stripped, ">") ||
			hrLineRe.MatchString(stripped) ||
			strings.HasPrefix(stripped, "$$")
	}

	for i < len(lines) {
		line := lines[i]
		stripped := strings.TrimRight(line, "\n\r")

		if strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "$$") {
			fence := stripped[:3]
			if strings.HasPrefix(stripped, "$$") {
				fence = "$$"
			}
			out = append(out, line)
			i++
			for i < len(lines) {
				out = append(out, lines[i])
				closingStripped := strings.TrimRight(lines[i], "\n\r")
				if strings.HasPrefix(closingStripped, fence) {
					i++
					break
				}
				i++
			}
			continue
		}

		if headingLineRe.MatchString(stripped) || listLineRe.MatchString(stripped) ||
			strings.HasPrefix(stripped, ">") || hrLineRe.MatchString(stripped) || stripped == "" {
			out = append(out, line)
			i++
			continue
		}

		var paragraph []string
		for i < len(lines) {
			curr := strings.TrimRight(lines[i], "\n\r")
			if curr == "" || isSpecial(curr) {
				break
			}
			paragraph = append(paragraph, curr)
			i++
		}
		if len(paragraph) > 0 {
			out = append(out, fill(strings.Join(paragraph, " "), width)+"\n")
		}
	}

	return strings.Join(out, "")
}

// fill wraps text into lines no longer than width, splitting only on
// whitespace (never inside a word or a hyphen), matching textwrap.fill
// with break_long_words=False and break_on_hyphens=False.
func fill(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	var current strings.Builder
	currentLen := 0

	for _, word := range words {
		if currentLen > 0 && currentLen+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += len(word)
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}
