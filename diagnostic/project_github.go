package diagnostic

import (
	"fmt"
	"strings"
)

// ToGitHubActions renders one `::error|warning|notice file=…,line=…,col=…::msg (ruleId)`
// line per diagnostic, per spec.md §6.3.
func ToGitHubActions(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		level := "notice"
		switch d.Severity {
		case SeverityError:
			level = "error"
		case SeverityWarning:
			level = "warning"
		}
		msg := strings.ReplaceAll(d.Message, "%", "%25")
		msg = strings.ReplaceAll(msg, "\r", "%0D")
		msg = strings.ReplaceAll(msg, "\n", "%0A")
		fmt.Fprintf(&b, "::%s file=%s,line=%d,col=%d::%s (%s)\n",
			level, d.Location.File, d.Location.Line, d.Location.Column, msg, d.RuleID)
	}
	return b.String()
}
