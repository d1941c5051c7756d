package article

import (
	"regexp"
	"strconv"
	"strings"
)

// Fence placeholders use Unicode Private Use Area characters so they cannot
// collide with authored text.
const (
	fencePlaceholderStart = "\uE000"
	fencePlaceholderEnd   = "\uE001"
)

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// import X from 'y'; import 'y'; import {a, b} from "y"; import * as X from 'y'
	importLine = regexp.MustCompile(`^\s*import\s+(?:[\w$*{}\s,]+\s+from\s+)?['"][^'"]+['"]\s*;?\s*$`)

	orderedListItem = regexp.MustCompile(`^\d+[.)](\s|$)`)
	thematicBreak   = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})\s*$`)
	setextUnderline = regexp.MustCompile(`^(?:=+|-+)\s*$`)
)

// PreprocessBody prepares a raw body for rendering.
//
// Import-statement lines are removed and a single newline between two
// non-blank lines is collapsed into a space, unless the second line starts a
// block construct or the first one is a standalone line (heading, HTML or
// shortcode, table row, hard break). Fenced code blocks are swapped for
// placeholders during the pass and restored afterwards, so their content is
// unchanged. Line endings are normalized to LF.
func PreprocessBody(body string) string {
	body = crlfOrCR.ReplaceAllString(body, "\n")

	lines, fences := extractFences(strings.Split(body, "\n"))

	kept := lines[:0]
	for _, line := range lines {
		if importLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	out := collapseSoftBreaks(kept)
	return restoreFences(out, fences)
}

func fencePlaceholder(i int) string {
	return fencePlaceholderStart + strconv.Itoa(i) + fencePlaceholderEnd
}

// extractFences replaces each ``` fenced block (opening line through closing
// line) with a single placeholder line. An unclosed fence runs to the end.
func extractFences(lines []string) ([]string, []string) {
	var (
		out    []string
		fences []string
	)
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimLeft(lines[i], " ")
		if !strings.HasPrefix(trimmed, "```") {
			out = append(out, lines[i])
			continue
		}
		j := i + 1
		for j < len(lines) && !strings.HasPrefix(strings.TrimLeft(lines[j], " "), "```") {
			j++
		}
		end := j
		if end >= len(lines) {
			end = len(lines) - 1
		}
		fences = append(fences, strings.Join(lines[i:end+1], "\n"))
		out = append(out, fencePlaceholder(len(fences)-1))
		i = end
	}
	return out, fences
}

func restoreFences(body string, fences []string) string {
	for i, fence := range fences {
		body = strings.Replace(body, fencePlaceholder(i), fence, 1)
	}
	return body
}

func collapseSoftBreaks(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(line)
			continue
		}
		prev := lines[i-1]
		if canJoin(prev, line) {
			b.WriteByte(' ')
			b.WriteString(strings.TrimLeft(line, " \t"))
			continue
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

func canJoin(prev, next string) bool {
	if strings.TrimSpace(prev) == "" || strings.TrimSpace(next) == "" {
		return false
	}
	if strings.HasSuffix(prev, "  ") || strings.HasSuffix(prev, "\\") {
		return false
	}
	return !isStandaloneLine(prev) && !startsBlock(next)
}

// isStandaloneLine reports lines that must keep their own line even when
// followed by plain text.
func isStandaloneLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "#") ||
		strings.HasPrefix(t, "<") ||
		strings.HasPrefix(t, "{{") ||
		strings.HasPrefix(t, "|") ||
		strings.HasPrefix(t, fencePlaceholderStart) ||
		thematicBreak.MatchString(t) ||
		setextUnderline.MatchString(t)
}

func startsBlock(line string) bool {
	if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
		return true
	}
	t := strings.TrimSpace(line)
	if isStandaloneLine(t) {
		return true
	}
	for _, marker := range []string{"- ", "* ", "+ ", ">"} {
		if strings.HasPrefix(t, marker) {
			return true
		}
	}
	return t == "-" || t == "*" || orderedListItem.MatchString(t)
}
