package gritql

import (
	"fmt"

	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/semantic"
)

// MatchRange is the 0-based line/column span of one Match, mirroring
// original_source's MatchRange shape.
type MatchRange struct {
	StartLine, StartColumn int
	EndLine, EndColumn     int
}

// Match is one successful pattern application, per spec.md §4.8.4.
type Match struct {
	Range       MatchRange
	Captures    map[string]string
	MatchedText string
	Node        *cst.Node
}

// Execute walks root in preorder, testing every node whose kind matches
// p.kind against p.pred, and returns a Match for each success.
func (p *CompiledPattern) Execute(root *cst.Node, src []byte, file string) ([]Match, error) {
	sm := semantic.NewSourceMap(src)
	var out []Match
	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n.Kind() == p.kind {
			bindings := map[string]string{}
			reader := newFieldReader(n)
			ok := true
			if p.pred != nil {
				matched, err := p.pred.eval(&evalContext{node: reader, bindings: bindings})
				if err != nil {
					ok = false
				} else {
					ok = matched
				}
			}
			if ok {
				for _, v := range p.Vars {
					if val, found := reader.fieldOrBinding(v, bindings); found {
						bindings[v] = val
					}
				}
				start, end := n.Range()
				sl, sc := sm.LineCol(start)
				el, ec := sm.LineCol(end)
				out = append(out, Match{
					Range:       MatchRange{StartLine: sl, StartColumn: sc, EndLine: el, EndColumn: ec},
					Captures:    bindings,
					MatchedText: n.Text(),
					Node:        n,
				})
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

// EffectKind classifies a rewrite effect's applicability safety
// (spec.md §4.8.3).
type EffectKind int

const (
	EffectReplace EffectKind = iota
	EffectInsert
	EffectDelete
	EffectRewriteField
)

// Effect is one rewrite action a GritQL rule's template produces.
type Effect struct {
	Kind        EffectKind
	Start       int
	End         int
	Replacement string
	FieldName   string
}

var safeRewriteFields = map[string]bool{"id": true, "name": true, "title": true}

// Applicability mirrors the Always/MaybeIncorrect members of
// diagnostic.Applicability (HasPlaceholders has no counterpart here),
// duplicated here (not imported) so gritql has no
// compile-time dependency on the diagnostic package's internal layout;
// callers translate this into a diagnostic.Applicability when building a
// CodeSuggestion.
type Applicability int

const (
	Always Applicability = iota
	MaybeIncorrect
)

// Safety returns the applicability classification for e, per spec.md
// §4.8.3: Replace is always safe; Insert/Delete are unsafe; RewriteField is
// safe only for id/name/title.
func (e Effect) Safety() Applicability {
	switch e.Kind {
	case EffectReplace:
		return Always
	case EffectRewriteField:
		if safeRewriteFields[e.FieldName] {
			return Always
		}
		return MaybeIncorrect
	default:
		return MaybeIncorrect
	}
}

// RenderTemplate substitutes `$var` placeholders in a rewrite template
// using m's captures, per spec.md §4.8.3. An undefined variable is an
// error. Function-call syntax is not evaluated: in `to_pascal_case($name)`
// only `$name` is replaced and the rest is copied through as written.
func RenderTemplate(template string, m Match) (string, error) {
	var out []byte
	i := 0
	for i < len(template) {
		if template[i] == '$' {
			j := i + 1
			for j < len(template) && isIdentByte(template[j]) {
				j++
			}
			name := "$" + template[i+1:j]
			val, ok := m.Captures[name]
			if !ok {
				return "", fmt.Errorf("undefined variable %q in rewrite template", name)
			}
			out = append(out, val...)
			i = j
			continue
		}
		out = append(out, template[i])
		i++
	}
	return string(out), nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
