package diagnostic

import (
	"fmt"
	"strings"
)

// ToHuman renders a colorized-in-spirit (plain-text here; color is a
// terminal-rendering concern excluded per spec.md §1) summary with an
// optional snippet and caret underline.
func ToHuman(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s: %s:%d:%d\n", strings.ToUpper(string(d.Severity)), d.Location.File, d.Location.Line, d.Location.Column)
		fmt.Fprintf(&b, "  %s [%s]\n", d.Message, d.RuleID)
		if d.CodeSnippet != "" {
			fmt.Fprintf(&b, "  | %s\n", d.CodeSnippet)
			col := d.Location.Column
			if col < 1 {
				col = 1
			}
			fmt.Fprintf(&b, "  | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", max(1, d.Location.Length)))
		}
		for _, s := range d.Suggestions {
			fmt.Fprintf(&b, "  suggestion (%s): %s\n", s.Applicability, s.Message)
		}
	}
	return b.String()
}

// ToCompact renders a single summary line.
func ToCompact(diags []Diagnostic) string {
	var errs, warns, infos, hints int
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warns++
		case SeverityInfo:
			infos++
		case SeverityHint:
			hints++
		}
	}
	return fmt.Sprintf("%d problems (%d errors, %d warnings, %d info, %d hints)", len(diags), errs, warns, infos, hints)
}
