package rules

import (
	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/gritql"
)

// NewGritQLRule adapts a compiled GritQL pattern into the Rule shape the
// Registry runs, per spec.md §4.7 item 2: every match becomes one
// Diagnostic at the matched node's range.
func NewGritQLRule(id, name, message string, category Category, severity diagnostic.Severity, pattern *gritql.CompiledPattern) Rule {
	return Rule{
		ID:              id,
		Name:            name,
		Description:     message,
		Category:        category,
		DefaultSeverity: severity,
		Check: func(m Model) []diagnostic.Diagnostic {
			matches, err := pattern.Execute(m.Root, m.Src, m.File)
			if err != nil {
				return nil
			}
			out := make([]diagnostic.Diagnostic, 0, len(matches))
			for _, match := range matches {
				start, end := match.Node.Range()
				out = append(out, diagnostic.New(id, severity, message,
					diagnostic.Location{File: m.File, Offset: start, Length: end - start}))
			}
			return out
		},
	}
}
