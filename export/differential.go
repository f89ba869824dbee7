package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/termfx/fshlint/diagnostic"
)

// elementDiff accumulates the constraints one rule path contributes to a
// differential ElementDefinition, mirroring spec.md §4.6.3's "mutate the
// ElementDefinition for the resolved path" model. Fields are ordered-map
// projected lazily by Elements so path-touch order becomes array order.
type elementDiff struct {
	path          string
	min           *int
	max           string
	flags         map[string]bool
	bindingStrength string
	bindingValueSet string
	onlyTypes     []string
	fixedKey      string
	fixedValue    string
	short         string
	definition    string
	comment       string
	requirements  string
	constraints   []constraintRef
	sliceName     string
}

type constraintRef struct {
	Key      string
	Severity string
	Human    string
	Expr     string
}

// Differential accumulates per-path element diffs in first-touch order,
// the shape every typed exporter (Profile, Extension, Logical) builds
// against before projecting to a Resource.
type Differential struct {
	order []string
	byPath map[string]*elementDiff
	diags []diagnostic.Diagnostic
}

func NewDifferential() *Differential {
	return &Differential{byPath: make(map[string]*elementDiff)}
}

func (d *Differential) entry(path string) *elementDiff {
	if e, ok := d.byPath[path]; ok {
		return e
	}
	e := &elementDiff{path: path, flags: make(map[string]bool)}
	d.byPath[path] = e
	d.order = append(d.order, path)
	return e
}

func (d *Differential) addDiag(diag diagnostic.Diagnostic) {
	d.diags = append(d.diags, diag)
}

// Diagnostics returns every diagnostic raised while building the
// differential (invalid cardinality, unknown binding strength, etc).
func (d *Differential) Diagnostics() []diagnostic.Diagnostic { return d.diags }

// SetCardinality applies a CardRule's min/max to path, validating
// min <= max when both are finite (spec.md §4.6.3).
func (d *Differential) SetCardinality(file, path string, min, max int, offset int) {
	e := d.entry(path)
	if max >= 0 && min > max {
		d.addDiag(diagnostic.New("export/invalid-cardinality", diagnostic.SeverityError,
			fmt.Sprintf("cardinality %d..%d is invalid: min exceeds max", min, max),
			diagnostic.Location{File: file, Offset: offset}))
		return
	}
	e.min = &min
	if max < 0 {
		e.max = "*"
	} else {
		e.max = strconv.Itoa(max)
	}
}

// SetFlags marks boolean flags (MS, SU, ?!, etc) on path.
func (d *Differential) SetFlags(path string, flags []string) {
	e := d.entry(path)
	for _, f := range flags {
		e.flags[f] = true
	}
}

// SetBinding records a binding rule's strength/value set, validating the
// strength against the closed FHIR vocabulary.
func (d *Differential) SetBinding(file, path, valueSet, strength string, offset int) {
	e := d.entry(path)
	e.bindingValueSet = valueSet
	if strength == "" {
		strength = "required"
	}
	if !isValidStrength(strength) {
		d.addDiag(diagnostic.New("export/unknown-binding-strength", diagnostic.SeverityError,
			fmt.Sprintf("unknown binding strength %q", strength),
			diagnostic.Location{File: file, Offset: offset}))
		return
	}
	e.bindingStrength = strength
}

func isValidStrength(s string) bool {
	switch s {
	case "required", "extensible", "preferred", "example":
		return true
	}
	return false
}

// SetOnly restricts path's admissible types.
func (d *Differential) SetOnly(path string, types []string) {
	d.entry(path).onlyTypes = types
}

// SetFixedValue records a fixed/pattern value assignment, choosing the
// `fixed`/`pattern` key based on exactly and the FHIR type suffix.
func (d *Differential) SetFixedValue(path, typeSuffix, value string, exactly bool) {
	e := d.entry(path)
	prefix := "pattern"
	if exactly {
		prefix = "fixed"
	}
	e.fixedKey = prefix + typeSuffix
	e.fixedValue = value
}

// AddConstraint appends an invariant reference (Obeys rule) to path.
func (d *Differential) AddConstraint(path, key, severity, human, expr string) {
	e := d.entry(path)
	e.constraints = append(e.constraints, constraintRef{Key: key, Severity: severity, Human: human, Expr: expr})
}

// SetCaretOnElement applies a `^`-rule targeting path's own metadata
// (short/definition/comment/requirements) rather than the root resource.
func (d *Differential) SetCaretOnElement(path, caretPath, value string) {
	e := d.entry(path)
	switch caretPath {
	case "short":
		e.short = value
	case "definition":
		e.definition = value
	case "comment":
		e.comment = value
	case "requirements":
		e.requirements = value
	}
}

// MarkSlice records that path is a slice root introduced by a Contains
// rule, under the given slice name.
func (d *Differential) MarkSlice(path, sliceName string) {
	d.entry(path).sliceName = sliceName
}

// Elements projects the accumulated diffs into ordered-map Resources, one
// per touched path, in first-touch order.
func (d *Differential) Elements() []*Resource {
	out := make([]*Resource, 0, len(d.order))
	for _, path := range d.order {
		e := d.byPath[path]
		el := NewResource().Set("path", e.path)
		if e.sliceName != "" {
			el.Set("sliceName", e.sliceName)
		}
		if e.min != nil {
			el.Set("min", *e.min)
		}
		if e.max != "" {
			el.Set("max", e.max)
		}
		if e.short != "" {
			el.Set("short", e.short)
		}
		if e.definition != "" {
			el.Set("definition", e.definition)
		}
		if e.comment != "" {
			el.Set("comment", e.comment)
		}
		if e.requirements != "" {
			el.Set("requirements", e.requirements)
		}
		for _, flag := range []string{"MS", "SU", "?!", "TU", "N", "D"} {
			if e.flags[flag] {
				switch flag {
				case "MS":
					el.Set("mustSupport", true)
				case "SU":
					el.Set("isSummary", true)
				case "?!":
					el.Set("isModifier", true)
				case "TU":
					el.Set("status", "trial-use")
				case "N":
					el.Set("status", "normative")
				case "D":
					el.Set("status", "draft")
				}
			}
		}
		if len(e.onlyTypes) > 0 {
			var types []any
			for _, t := range e.onlyTypes {
				types = append(types, NewResource().Set("code", t))
			}
			el.Set("type", types)
		}
		if e.bindingStrength != "" {
			binding := NewResource().Set("strength", e.bindingStrength)
			if e.bindingValueSet != "" {
				binding.Set("valueSet", e.bindingValueSet)
			}
			el.Set("binding", binding)
		}
		if e.fixedKey != "" {
			el.Set(e.fixedKey, parseValueLiteral(e.fixedValue))
		}
		if len(e.constraints) > 0 {
			var cons []any
			for _, c := range e.constraints {
				cons = append(cons, NewResource().
					Set("key", c.Key).
					Set("severity", c.Severity).
					Set("human", c.Human).
					Set("expression", c.Expr))
			}
			el.Set("constraint", cons)
		}
		out = append(out, el)
	}
	return out
}

// parseValueLiteral converts an FSH literal (string/number/bool/code) into
// its corresponding JSON-representable Go value, per spec.md §3.2's
// literal set.
func parseValueLiteral(raw string) any {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		return strings.Trim(raw, `"`)
	}
	if strings.HasPrefix(raw, "#") {
		return strings.TrimPrefix(raw, "#")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
