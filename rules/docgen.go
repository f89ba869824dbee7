package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateDocs renders one Markdown file per category plus an index page
// into outputDir, querying reg the way the teacher's rule_doc_generator
// queries its own registry.
func GenerateDocs(reg *Registry, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("generate rule docs: %w", err)
	}
	all := reg.All()

	var index strings.Builder
	index.WriteString("---\ntitle: Built-in Rules\ndescription: Overview of all built-in FSH lint rules\n---\n\n")
	fmt.Fprintf(&index, "This toolchain ships %d built-in rules organized into categories:\n\n", len(all))

	for _, cat := range categoryOrder {
		var inCategory []Rule
		for _, r := range all {
			if r.Category == cat {
				inCategory = append(inCategory, r)
			}
		}
		fmt.Fprintf(&index, "### %s rules (%d)\n\n", cat, len(inCategory))
		for _, r := range inCategory {
			fmt.Fprintf(&index, "- [%s](%s.md)\n", r.ID, ruleSlug(r.ID))
		}
		index.WriteString("\n")

		if err := writeCategoryDoc(outputDir, cat, inCategory); err != nil {
			return err
		}
	}

	return os.WriteFile(filepath.Join(outputDir, "index.md"), []byte(index.String()), 0o644)
}

func writeCategoryDoc(outputDir string, cat Category, rules []Rule) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s rules\n\n", cat)
	for _, r := range rules {
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", r.ID, r.Description)
		fmt.Fprintf(&sb, "- Default severity: `%s`\n", r.DefaultSeverity)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&sb, "- Tags: %s\n", strings.Join(r.Tags, ", "))
		}
		if r.HasAutofix {
			sb.WriteString("- Autofix available\n")
		}
		sb.WriteString("\n")
	}
	name := strings.ToLower(cat.String()) + ".md"
	return os.WriteFile(filepath.Join(outputDir, name), []byte(sb.String()), 0o644)
}

func ruleSlug(id string) string {
	return strings.ReplaceAll(id, "/", "-")
}
