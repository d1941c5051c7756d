package lint

// Severity indicates the importance level of a lint issue.
type Severity int

const (
	// SeverityInfo marks fields that were defaulted where a default is expected.
	SeverityInfo Severity = iota
	// SeverityWarning marks content that renders but not as the author intended.
	SeverityWarning
	// SeverityError marks content that will not be served.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Rule identifiers.
const (
	RuleResolverFailed     = "resolver-failed"
	RuleUnparseable        = "document-unparseable"
	RuleLenientFrontMatter = "frontmatter-lenient"
	RuleFieldDefaulted     = "field-defaulted"
	RuleDateMissing        = "date-missing"
	RuleDateUnparseable    = "date-unparseable"
	RuleSlugCollision      = "slug-collision"
	RuleCoverUnclassified  = "cover-unclassified"
)

// Issue is a single problem found in a content document.
type Issue struct {
	Source   string   // Resolver the document came from
	FilePath string   // Path within the resolver
	Slug     string   // Document slug, empty for resolver-level issues
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier
	Message  string   // Brief description of the issue
	Fix      string   // Suggested fix
}

// Result contains all issues found during a lint run.
type Result struct {
	Issues         []Issue
	Sources        []string // Resolvers linted, in order
	DocumentsTotal int      // Raw documents scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

// InfoCount returns the number of informational issues.
func (r *Result) InfoCount() int { return r.count(SeverityInfo) }

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Filter returns a copy of the result without issues below min.
func (r *Result) Filter(min Severity) *Result {
	out := &Result{Sources: r.Sources, DocumentsTotal: r.DocumentsTotal}
	for _, issue := range r.Issues {
		if issue.Severity >= min {
			out.Issues = append(out.Issues, issue)
		}
	}
	return out
}
