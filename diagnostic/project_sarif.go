package diagnostic

import (
	"bytes"

	"github.com/owenrumney/go-sarif/v3/pkg/sarif"
)

// ToSARIF renders diagnostics as a SARIF 2.1.0 log, per spec.md §6.3:
// runs[0].results[*] with fixes[*].artifactChanges[*].replacements[*];
// level maps Error->error, Warning->warning, Info/Hint->note.
func ToSARIF(diags []Diagnostic, toolName, toolVersion, informationURI string) ([]byte, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, err
	}

	run := sarif.NewRunWithInformationURI(toolName, informationURI)
	run.Tool.Driver.Version = &toolVersion

	seenRules := map[string]bool{}

	for _, d := range diags {
		if !seenRules[d.RuleID] {
			run.AddRule(d.RuleID)
			seenRules[d.RuleID] = true
		}

		result := run.CreateResultForRule(d.RuleID).
			WithLevel(sarifLevel(d.Severity)).
			WithMessage(sarif.NewTextMessage(d.Message))

		region := sarif.NewRegion().
			WithStartLine(d.Location.Line).
			WithStartColumn(d.Location.Column).
			WithEndLine(endLineOr(d)).
			WithEndColumn(endColOr(d))

		result.AddLocation(sarif.NewLocationWithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(d.Location.File).ArtifactLocation).
				WithRegion(region)))

		for _, s := range d.Suggestions {
			replacement := sarif.NewReplacement(
				sarif.NewRegion().WithStartLine(s.Location.Line).WithStartColumn(s.Location.Column).WithEndLine(endLineOr(d)).WithEndColumn(endColOr(d)),
			).WithInsertedContent(sarif.NewArtifactContent().WithText(s.Replacement))

			change := sarif.NewAddedOrModifiedArtifactChange(sarif.NewSimpleArtifactLocation(d.Location.File)).
				WithReplacement(replacement)

			fix := sarif.NewFix().WithDescription(s.Message).WithArtifactChange(change)
			result.WithFix(fix)
		}

		run.AddResult(result)
	}

	report.AddRun(run)

	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sarifLevel(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func endLineOr(d Diagnostic) int {
	if d.Location.EndLine > 0 {
		return d.Location.EndLine
	}
	return d.Location.Line
}

func endColOr(d Diagnostic) int {
	if d.Location.EndColumn > 0 {
		return d.Location.EndColumn
	}
	return d.Location.Column + d.Location.Length
}
