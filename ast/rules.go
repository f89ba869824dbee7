package ast

import (
	"strconv"
	"strings"

	"github.com/termfx/fshlint/cst"
)

// Rule is a typed view over a NodeRule CST node. Use Kind() to discriminate
// which specific rule accessor (CardRule, FlagRule, ...) applies, mirroring
// spec.md §3.3's closed set of per-rule types.
type Rule struct {
	node *cst.Node
}

func (r Rule) Node() *cst.Node { return r.node }

// Body returns the single child node identifying which RuleBody production
// matched (NodeCardRule, NodeFlagRule, NodeBindingRule, ...).
func (r Rule) Body() *cst.Node {
	for _, c := range r.node.Children() {
		switch c.Kind() {
		case cst.NodeCardRule, cst.NodeFlagRule, cst.NodeBindingRule, cst.NodeFixedValueRule,
			cst.NodeContainsRule, cst.NodeOnlyRule, cst.NodeObeysRule, cst.NodeCaretValueRule,
			cst.NodeInsertRule, cst.NodePathRule, cst.NodeAddElementRule,
			cst.NodeCodeCaretValueRule, cst.NodeCodeInsertRule:
			return c
		}
	}
	return nil
}

func (r Rule) Kind() cst.Kind {
	if b := r.Body(); b != nil {
		return b.Kind()
	}
	return cst.KindUnknown
}

// Path returns the dotted path prefix of the rule, if any (the part before
// the RuleBody), e.g. "name" in `* name 1..1 MS`.
func (r Rule) Path() (string, bool) {
	p := r.node.FirstChildOfKind(cst.NodePath)
	if p == nil {
		return "", false
	}
	return strings.TrimSpace(p.Text()), true
}

// PathSegments splits Path() on '.', stripping bracket suffixes into a
// parallel slice, mirroring spec.md §4.4.2's PathSegment model.
func (r Rule) PathSegments() []PathSegment {
	p := r.node.FirstChildOfKind(cst.NodePath)
	if p == nil {
		return nil
	}
	var out []PathSegment
	for _, seg := range p.ChildrenOfKind(cst.NodePathSegment) {
		ps := PathSegment{}
		for _, el := range seg.ChildrenWithTokens() {
			if el.Token != nil && el.Token.Kind() == cst.KindIdent {
				ps.Name = el.Token.Text()
			}
			if el.Node != nil && el.Node.Kind() == cst.NodeBracket {
				ps.Bracket = strings.Trim(el.Node.Text(), "[]")
				ps.HasBracket = true
			}
		}
		out = append(out, ps)
	}
	return out
}

// PathSegment is one dotted component of a rule path, per spec.md §4.4.2.
type PathSegment struct {
	Name       string
	Bracket    string
	HasBracket bool
}

// CardRule is `Cardinality Flags?`.
type CardRule struct{ node *cst.Node }

func AsCardRule(n *cst.Node) (CardRule, bool) {
	if n.Kind() != cst.NodeCardRule {
		return CardRule{}, false
	}
	return CardRule{node: n}, true
}

// Cardinality returns (min, max, ok); max is "*" for unbounded.
func (c CardRule) Cardinality() (min string, max string, ok bool) {
	card := c.node.FirstChildOfKind(cst.NodeCardinality)
	if card == nil {
		return "", "", false
	}
	var nums []string
	sawStar := false
	for _, el := range card.ChildrenWithTokens() {
		if el.Token == nil {
			continue
		}
		switch el.Token.Kind() {
		case cst.KindInteger:
			nums = append(nums, el.Token.Text())
		case cst.KindStar:
			sawStar = true
		}
	}
	if sawStar {
		nums = append(nums, "*")
	}
	if len(nums) == 0 {
		return "", "", false
	}
	if len(nums) == 1 {
		return nums[0], nums[0], true
	}
	return nums[0], nums[len(nums)-1], true
}

// MinMaxInts parses Cardinality()'s bounds; max == -1 means unbounded.
func (c CardRule) MinMaxInts() (min int, max int, ok bool) {
	minS, maxS, present := c.Cardinality()
	if !present {
		return 0, 0, false
	}
	min, err := strconv.Atoi(minS)
	if err != nil {
		return 0, 0, false
	}
	if maxS == "*" {
		return min, -1, true
	}
	max, err = strconv.Atoi(maxS)
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}

func (c CardRule) Flags() []string { return extractFlags(c.node) }

// CardinalitySpan returns the absolute byte span of the Cardinality node
// itself (e.g. "1..0"), letting callers point an edit at just the
// cardinality text instead of the whole rule.
func (c CardRule) CardinalitySpan() (start, end int, ok bool) {
	card := c.node.FirstChildOfKind(cst.NodeCardinality)
	if card == nil {
		return 0, 0, false
	}
	start, end = card.Range()
	return start, end, true
}

// FlagRule is a bare `Flags` rule with no cardinality.
type FlagRule struct{ node *cst.Node }

func AsFlagRule(n *cst.Node) (FlagRule, bool) {
	if n.Kind() != cst.NodeFlagRule {
		return FlagRule{}, false
	}
	return FlagRule{node: n}, true
}

func (f FlagRule) Flags() []string { return extractFlags(f.node) }

func extractFlags(n *cst.Node) []string {
	flagsNode := n.FirstChildOfKind(cst.NodeFlags)
	if flagsNode == nil {
		return nil
	}
	var out []string
	for _, el := range flagsNode.ChildrenWithTokens() {
		if el.Token == nil {
			continue
		}
		switch el.Token.Kind() {
		case cst.KindFlagMS:
			out = append(out, "MS")
		case cst.KindFlagSU:
			out = append(out, "SU")
		case cst.KindFlagTU:
			out = append(out, "TU")
		case cst.KindFlagN:
			out = append(out, "N")
		case cst.KindFlagD:
			out = append(out, "D")
		case cst.KindFlagQuestionBang:
			out = append(out, "?!")
		}
	}
	return out
}

// BindingRule is `'from' Ident ('(' BindingStrength ')')?`.
type BindingRule struct{ node *cst.Node }

func AsBindingRule(n *cst.Node) (BindingRule, bool) {
	if n.Kind() != cst.NodeBindingRule {
		return BindingRule{}, false
	}
	return BindingRule{node: n}, true
}

func (b BindingRule) ValueSet() (string, bool) {
	for _, el := range b.node.ChildrenWithTokens() {
		if el.Token != nil && el.Token.Kind() == cst.KindIdent {
			return el.Token.Text(), true
		}
	}
	return "", false
}

// Strength returns the raw text between the parens, if present, and
// whether parens were present at all.
func (b BindingRule) Strength() (string, bool) {
	text := b.node.Text()
	lp := strings.IndexByte(text, '(')
	rp := strings.LastIndexByte(text, ')')
	if lp < 0 || rp < 0 || rp < lp {
		return "", false
	}
	return strings.TrimSpace(text[lp+1 : rp]), true
}

// StrengthSpan returns the absolute byte span of the strength token itself
// (the trimmed text between the parens), not the whole rule, so callers can
// point an edit at just that word instead of the entire binding rule.
func (b BindingRule) StrengthSpan() (start, end int, ok bool) {
	text := b.node.Text()
	lp := strings.IndexByte(text, '(')
	rp := strings.LastIndexByte(text, ')')
	if lp < 0 || rp < 0 || rp < lp {
		return 0, 0, false
	}
	inner := text[lp+1 : rp]
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return 0, 0, false
	}
	leadingWS := len(inner) - len(strings.TrimLeft(inner, " \t\n\r"))
	nodeStart, _ := b.node.Range()
	absStart := nodeStart + lp + 1 + leadingWS
	return absStart, absStart + len(trimmed), true
}

// FixedValueRule is `'=' Value ('(' 'exactly' ')')?`.
type FixedValueRule struct{ node *cst.Node }

func AsFixedValueRule(n *cst.Node) (FixedValueRule, bool) {
	if n.Kind() != cst.NodeFixedValueRule {
		return FixedValueRule{}, false
	}
	return FixedValueRule{node: n}, true
}

func (f FixedValueRule) Value() string {
	v := f.node.FirstChildOfKind(cst.NodeValue)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

func (f FixedValueRule) Exactly() bool {
	return strings.Contains(f.node.Text(), "(exactly)")
}

// ContainsRule is `'contains' ContainsItem ('and' ContainsItem)*`.
type ContainsRule struct{ node *cst.Node }

func AsContainsRule(n *cst.Node) (ContainsRule, bool) {
	if n.Kind() != cst.NodeContainsRule {
		return ContainsRule{}, false
	}
	return ContainsRule{node: n}, true
}

func (c ContainsRule) Items() []string {
	var out []string
	for _, item := range c.node.ChildrenOfKind(cst.NodeContainsItem) {
		out = append(out, strings.TrimSpace(item.Text()))
	}
	return out
}

// OnlyRule is `'only' TypeRef ('or' TypeRef)*`.
type OnlyRule struct{ node *cst.Node }

func AsOnlyRule(n *cst.Node) (OnlyRule, bool) {
	if n.Kind() != cst.NodeOnlyRule {
		return OnlyRule{}, false
	}
	return OnlyRule{node: n}, true
}

func (o OnlyRule) Types() []string {
	var out []string
	for _, t := range o.node.ChildrenOfKind(cst.NodeTypeRef) {
		out = append(out, strings.TrimSpace(t.Text()))
	}
	return out
}

// ObeysRule is `'obeys' Ident ('and' Ident)*`.
type ObeysRule struct{ node *cst.Node }

func AsObeysRule(n *cst.Node) (ObeysRule, bool) {
	if n.Kind() != cst.NodeObeysRule {
		return ObeysRule{}, false
	}
	return ObeysRule{node: n}, true
}

func (o ObeysRule) Invariants() []string {
	var out []string
	for _, el := range o.node.ChildrenWithTokens() {
		if el.Token != nil && el.Token.Kind() == cst.KindIdent {
			out = append(out, el.Token.Text())
		}
	}
	return out
}

// CaretValueRule is `'^' CaretPath '=' Value`.
type CaretValueRule struct{ node *cst.Node }

func AsCaretValueRule(n *cst.Node) (CaretValueRule, bool) {
	if n.Kind() != cst.NodeCaretValueRule {
		return CaretValueRule{}, false
	}
	return CaretValueRule{node: n}, true
}

func (c CaretValueRule) CaretPath() string {
	cp := c.node.FirstChildOfKind(cst.NodeCaretPath)
	if cp == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cp.Text()), "^"))
}

func (c CaretValueRule) Value() string {
	v := c.node.FirstChildOfKind(cst.NodeValue)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// InsertRule is `'insert' Ident ('(' Args ')')?`.
type InsertRule struct{ node *cst.Node }

func AsInsertRule(n *cst.Node) (InsertRule, bool) {
	if n.Kind() != cst.NodeInsertRule {
		return InsertRule{}, false
	}
	return InsertRule{node: n}, true
}

func (i InsertRule) RuleSetName() (string, bool) {
	for _, el := range i.node.ChildrenWithTokens() {
		if el.Token != nil && el.Token.Kind() == cst.KindIdent {
			return el.Token.Text(), true
		}
	}
	return "", false
}

func (i InsertRule) Args() []string {
	args := i.node.FirstChildOfKind(cst.NodeInsertArgs)
	if args == nil {
		return nil
	}
	text := strings.Trim(args.Text(), "()")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// PathRule is a bare path-only rule (no recognized body), used e.g. for
// AddElement's parameter-less continuation lines.
type PathRule struct{ node *cst.Node }

func AsPathRule(n *cst.Node) (PathRule, bool) {
	if n.Kind() != cst.NodePathRule {
		return PathRule{}, false
	}
	return PathRule{node: n}, true
}

func (p PathRule) RestOfLine() string { return strings.TrimSpace(p.node.Text()) }

// AddElementRule shares the PathRule shape (Logical/Resource contexts), and
// CodeCaretValueRule and CodeInsertRule share the CaretValueRule/InsertRule
// shapes (CodeSystem concept contexts); the exporter (export package)
// distinguishes them by enclosing entity kind rather than by a distinct
// grammar production, matching how FSH itself overloads '^'/'insert'
// syntax across entity kinds.
type AddElementRule = PathRule
type CodeCaretValueRule = CaretValueRule
type CodeInsertRule = InsertRule
