package semantic

import (
	"fmt"
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
)

// RuleSetDef is the Phase 1a registration record for one `RuleSet` block:
// its parameter names and the raw, unexpanded text of each rule line
// (spec.md §4.6.1).
type RuleSetDef struct {
	Name      string
	Params    []string
	RuleLines []string
	File      string
}

// RuleSetRegistry collects RuleSetDefs across every document (Phase 1a) and
// expands `insert` invocations against them (Phase 1b), per spec.md §4.6.
type RuleSetRegistry struct {
	defs       map[string]RuleSetDef
	Duplicates []Duplicate
}

func NewRuleSetRegistry() *RuleSetRegistry {
	return &RuleSetRegistry{defs: make(map[string]RuleSetDef)}
}

// Collect scans doc for RuleSet blocks and registers each one. The first
// registration of a given name wins; later ones are recorded as duplicates.
func (r *RuleSetRegistry) Collect(file string, doc ast.Document) {
	for _, e := range doc.Entities() {
		if e.Kind() != cst.NodeRuleSet {
			continue
		}
		name, ok := e.Name()
		if !ok {
			continue
		}
		def := RuleSetDef{
			Name:      name,
			Params:    e.RuleSetParams(),
			RuleLines: ruleLines(e),
			File:      file,
		}
		if existing, dup := r.defs[name]; dup {
			r.Duplicates = append(r.Duplicates, Duplicate{
				Name:   name,
				First:  Symbol{Name: existing.Name, File: existing.File},
				Second: Symbol{Name: def.Name, File: def.File},
			})
			continue
		}
		r.defs[name] = def
	}
}

// ruleLines renders each rule's source text as a standalone line, stripping
// the leading "* " marker so Expand can re-prefix it after substitution.
func ruleLines(e ast.Entity) []string {
	var out []string
	for _, rule := range e.Rules() {
		text := strings.TrimSpace(rule.Node().Text())
		text = strings.TrimPrefix(text, "*")
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

// Lookup returns the registered RuleSetDef for name.
func (r *RuleSetRegistry) Lookup(name string) (RuleSetDef, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// ExpandError is returned by Expand for a named failure the caller should
// surface as a diagnostic (RuleSet not found, arity mismatch).
type ExpandError struct {
	RuleSetName string
	Reason      string
}

func (e ExpandError) Error() string {
	return fmt.Sprintf("insert %s: %s", e.RuleSetName, e.Reason)
}

// Expand resolves one `insert X(arg1, ..., argN)` invocation into the fully
// substituted rule lines of X, ready for re-parsing in the calling entity's
// context (spec.md §4.6.2, steps 1-4).
func (r *RuleSetRegistry) Expand(name string, args []string) ([]string, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, ExpandError{RuleSetName: name, Reason: "RuleSet not found"}
	}
	if len(args) != len(def.Params) {
		return nil, ExpandError{
			RuleSetName: name,
			Reason:      fmt.Sprintf("expects %d parameters, got %d", len(def.Params), len(args)),
		}
	}
	bindings := make(map[string]string, len(def.Params))
	for i, p := range def.Params {
		bindings[p] = args[i]
	}
	out := make([]string, len(def.RuleLines))
	for i, line := range def.RuleLines {
		out[i] = "* " + substituteOutsideBrackets(line, bindings)
	}
	return out, nil
}

// substituteOutsideBrackets replaces every `{param}` occurrence in line with
// its bound argument, except when the occurrence falls inside a `[...]`
// span (tracked with a bracket-depth counter so `[outer[{param}]]` still
// suppresses substitution at any nesting depth), per spec.md §4.6.2 step 3.
func substituteOutsideBrackets(line string, bindings map[string]string) string {
	var out strings.Builder
	depth := 0
	i := 0
	for i < len(line) {
		c := line[i]
		switch c {
		case '[':
			depth++
			out.WriteByte(c)
			i++
			continue
		case ']':
			if depth > 0 {
				depth--
			}
			out.WriteByte(c)
			i++
			continue
		case '{':
			if depth == 0 {
				if end := strings.IndexByte(line[i:], '}'); end >= 0 {
					param := line[i+1 : i+end]
					if val, ok := bindings[param]; ok {
						out.WriteString(val)
						i += end + 1
						continue
					}
				}
			}
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}
