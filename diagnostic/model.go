// Package diagnostic defines the shared Diagnostic/CodeSuggestion model that
// every stage of the pipeline (parser, semantic model, exporter, rule
// engine, GritQL) reports through, plus the output projections used to
// render that model for humans and machines.
package diagnostic

import "fmt"

// Severity classifies how serious a Diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Applicability classifies whether a CodeSuggestion is safe to apply
// automatically.
type Applicability string

const (
	// Always means the fix is guaranteed to be semantically equivalent or a
	// strict improvement; safe for unattended application.
	Always Applicability = "always"
	// MaybeIncorrect means the fix may change behavior; requires an
	// explicit unsafe-fixes flag.
	MaybeIncorrect Applicability = "maybe-incorrect"
	// HasPlaceholders means the fix inserts text the user must still edit.
	HasPlaceholders Applicability = "has-placeholders"
)

// ErrorCode tags a Diagnostic with a machine-readable error-taxonomy
// category, mirroring the kinds enumerated in spec.md §7.
type ErrorCode string

const (
	CodeConfigError    ErrorCode = "config-error"
	CodeIOError        ErrorCode = "io-error"
	CodeParseError     ErrorCode = "parse-error"
	CodeSemanticError  ErrorCode = "semantic-error"
	CodeExportError    ErrorCode = "export-error"
	CodeGritQLError    ErrorCode = "gritql-error"
	CodeNetworkError   ErrorCode = "network-error"
	CodeRuleError      ErrorCode = "rule-error"
)

// Location pinpoints a Diagnostic within a source file. Offset/Length are
// byte-based and authoritative for edit application; Line/Column are
// 1-based and used only for presentation.
type Location struct {
	File      string
	Line      int
	Column    int
	Offset    int
	Length    int
	EndLine   int
	EndColumn int
	HasSpan   bool
}

// End returns the exclusive end byte offset of the location.
func (l Location) End() int { return l.Offset + l.Length }

// Label attaches a secondary annotation to a span, used to point at related
// locations (e.g. "first definition here" for a duplicate-definition error).
type Label struct {
	Location Location
	Message  string
}

// CodeSuggestion is a single proposed edit attached to a Diagnostic.
type CodeSuggestion struct {
	Message       string
	Replacement   string
	Location      Location
	Applicability Applicability
	Labels        []Label
}

// Diagnostic is the single unit of feedback surfaced by every pipeline
// stage: the parser, the semantic model, the exporter, lint rules, and
// GritQL pattern rules all produce these.
type Diagnostic struct {
	RuleID      string
	Severity    Severity
	Message     string
	Location    Location
	Code        ErrorCode
	CodeSnippet string
	Suggestions []CodeSuggestion
	Labels      []Label
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]", d.Location.File, d.Location.Line, d.Location.Column, d.Message, d.RuleID)
}

// New builds a Diagnostic with the common fields; suggestions/labels are
// attached afterward via WithSuggestion/WithLabel for readability at call
// sites with many optional parts.
func New(ruleID string, severity Severity, message string, loc Location) Diagnostic {
	return Diagnostic{RuleID: ruleID, Severity: severity, Message: message, Location: loc}
}

// WithSuggestion returns a copy of d with s appended to Suggestions.
func (d Diagnostic) WithSuggestion(s CodeSuggestion) Diagnostic {
	d.Suggestions = append(append([]CodeSuggestion{}, d.Suggestions...), s)
	return d
}

// WithCode returns a copy of d tagged with the given taxonomy ErrorCode.
func (d Diagnostic) WithCode(c ErrorCode) Diagnostic {
	d.Code = c
	return d
}

// Less implements the deterministic ordering required by spec.md §4.7 and
// §5: diagnostics sort by (file, offset, rule_id).
func Less(a, b Diagnostic) bool {
	if a.Location.File != b.Location.File {
		return a.Location.File < b.Location.File
	}
	if a.Location.Offset != b.Location.Offset {
		return a.Location.Offset < b.Location.Offset
	}
	return a.RuleID < b.RuleID
}
