package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter formats lint results for output.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs results grouped by source and file.
func (f *TextFormatter) Format(w io.Writer, result *Result) error {
	p := &printer{w: w}
	p.printf("Linting content sources: %s\n", strings.Join(result.Sources, ", "))
	p.println(strings.Repeat("━", 60))
	p.println()

	issues := append([]Issue(nil), result.Issues...)
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Source != issues[j].Source {
			return sourceIndex(result.Sources, issues[i].Source) < sourceIndex(result.Sources, issues[j].Source)
		}
		return issues[i].FilePath < issues[j].FilePath
	})
	for _, issue := range issues {
		f.formatIssue(p, issue)
		p.println()
	}

	p.println(strings.Repeat("━", 60))
	p.printf("Results:\n")
	p.printf("  %d document%s scanned\n", result.DocumentsTotal, pluralize(result.DocumentsTotal))
	if n := result.ErrorCount(); n > 0 {
		p.printf("  %d error%s (not served)\n", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		p.printf("  %d warning%s (served with defaults)\n", n, pluralize(n))
	}
	if n := result.InfoCount(); n > 0 {
		p.printf("  %d info\n", n)
	}
	p.println()

	switch {
	case result.HasErrors():
		p.println("❌ Some content will not be served.")
	case result.HasWarnings():
		p.println("⚠️  Content has warnings. Consider fixing before publishing.")
	case len(result.Issues) > 0:
		p.println("ℹ️  All issues are informational.")
	default:
		p.println("✨ All content passes linting!")
	}
	return p.err
}

func (f *TextFormatter) formatIssue(p *printer, issue Issue) {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	case SeverityInfo:
		icon = "ℹ"
	}

	location := issue.FilePath
	if location == "" {
		location = "(source)"
	}
	p.printf("%s [%s] %s\n", icon, issue.Source, location)
	p.printf("  %s %s: %s\n", issue.Severity, issue.Rule, issue.Message)
	if issue.Fix != "" {
		p.printf("  Fix: %s\n", issue.Fix)
	}
}

// printer keeps the first write error so callers can chain output.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, args...)
	}
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Sources        []string    `json:"sources"`
	DocumentsTotal int         `json:"documents_total"`
	ErrorCount     int         `json:"error_count"`
	WarningCount   int         `json:"warning_count"`
	InfoCount      int         `json:"info_count"`
	Issues         []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	Source   string `json:"source"`
	FilePath string `json:"file_path,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	output := JSONOutput{
		Sources:        result.Sources,
		DocumentsTotal: result.DocumentsTotal,
		ErrorCount:     result.ErrorCount(),
		WarningCount:   result.WarningCount(),
		InfoCount:      result.InfoCount(),
		Issues:         make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			Source:   issue.Source,
			FilePath: issue.FilePath,
			Slug:     issue.Slug,
			Severity: issue.Severity.String(),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Fix:      issue.Fix,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

func sourceIndex(sources []string, name string) int {
	for i, s := range sources {
		if s == name {
			return i
		}
	}
	return len(sources)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
