package cst

import "github.com/termfx/fshlint/diagnostic"

// ParseResult bundles the completed CST root with diagnostics collected
// during parsing — parse never fails outright (spec.md §4.2): even
// catastrophic input produces a root covering every byte.
type ParseResult struct {
	Root        *Node
	Diagnostics []diagnostic.Diagnostic
}

// Parse lexes and parses src into a lossless CST, recovering from errors by
// wrapping offending spans in Error nodes and resuming at the next
// recognizable statement boundary (spec.md §4.2).
func Parse(file string, src []byte) ParseResult {
	p := &parser{file: file, src: src, b: NewBuilder()}
	p.tokens = NewLexer(src).Tokenize()
	p.b.StartNode()
	p.parseDocument()
	p.b.FinishNode(NodeDocument)
	green := p.b.Finish()
	return ParseResult{Root: NewRoot(green), Diagnostics: p.diags}
}

type parser struct {
	file   string
	src    []byte
	tokens []RawToken
	pos    int
	b      *Builder
	diags  []diagnostic.Diagnostic
}

func (p *parser) cur() RawToken {
	return p.tokens[p.pos]
}

func (p *parser) curKind() Kind { return p.cur().Kind }

// peekSignificant looks ahead skipping trivia, without consuming anything.
func (p *parser) peekSignificant() Kind {
	i := p.pos
	for i < len(p.tokens) && (p.tokens[i].Kind.IsTrivia()) {
		i++
	}
	if i >= len(p.tokens) {
		return KindEOF
	}
	return p.tokens[i].Kind
}

// bump consumes the current token verbatim as a builder event, preserving
// every byte (even trivia) regardless of grammar position.
func (p *parser) bump() {
	t := p.cur()
	p.b.Token(t.Kind, TextOf(p.src, t))
	if t.Kind != KindEOF {
		p.pos++
	}
}

// bumpTrivia consumes any run of whitespace/comment tokens at the current
// position, so every production can freely interleave "skip trivia" without
// losing bytes: trivia tokens are always re-emitted as children of whatever
// node is currently open.
func (p *parser) bumpTrivia() {
	for p.curKind().IsTrivia() {
		p.bump()
	}
}

func (p *parser) atEOF() bool { return p.curKind() == KindEOF }

func (p *parser) errorHere(msg string) {
	t := p.cur()
	p.diags = append(p.diags, diagnostic.New("parse-error", diagnostic.SeverityError, msg,
		diagnostic.Location{File: p.file, Offset: t.Start, Length: max0(t.End-t.Start, 1)}).WithCode(diagnostic.CodeParseError))
}

func max0(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// parseDocument implements `Document := (TopLevel | Trivia)*` (spec.md §4.2).
func (p *parser) parseDocument() {
	for {
		p.bumpTrivia()
		if p.atEOF() {
			return
		}
		if TopLevelStarters[p.curKind()] {
			p.parseTopLevel()
			continue
		}
		p.recoverUnexpectedTopLevel()
	}
}

// recoverUnexpectedTopLevel wraps unexpected tokens in an Error node and
// scans forward to the next TopLevel starter or newline, per the recovery
// rules in spec.md §4.2.
func (p *parser) recoverUnexpectedTopLevel() {
	p.errorHere("expected a top-level definition (Profile, Extension, ValueSet, ...)")
	p.b.StartNode()
	for !p.atEOF() && !TopLevelStarters[p.curKind()] && p.curKind() != KindNewline {
		p.bump()
	}
	if p.curKind() == KindNewline {
		p.bump()
	}
	p.b.FinishNode(KindError)
}

func (p *parser) parseTopLevel() {
	switch p.curKind() {
	case KwProfile:
		p.parseEntity(KwProfile, NodeProfile)
	case KwExtension:
		p.parseEntity(KwExtension, NodeExtension)
	case KwValueSet:
		p.parseEntity(KwValueSet, NodeValueSet)
	case KwCodeSystem:
		p.parseEntity(KwCodeSystem, NodeCodeSystem)
	case KwInstance:
		p.parseEntity(KwInstance, NodeInstance)
	case KwInvariant:
		p.parseEntity(KwInvariant, NodeInvariant)
	case KwMapping:
		p.parseEntity(KwMapping, NodeMapping)
	case KwLogical:
		p.parseEntity(KwLogical, NodeLogical)
	case KwResource:
		p.parseEntity(KwResource, NodeResource)
	case KwAlias:
		p.parseAlias()
	case KwRuleSet:
		p.parseEntity(KwRuleSet, NodeRuleSet)
	}
}

// parseEntity implements `Kw ':' Ident Clauses Rule*` for every entity kind
// that shares this shape (Profile, Extension, ValueSet, CodeSystem,
// Instance, Invariant, Mapping, Logical, Resource, RuleSet). RuleSet's
// header additionally allows `(param1, param2, ...)` after the name.
func (p *parser) parseEntity(kw Kind, node Kind) {
	p.b.StartNode()
	p.bump() // keyword
	p.bumpTrivia()
	p.expectAndBump(KindColon, "expected ':'")
	p.bumpTrivia()
	p.expectAndBump(KindIdent, "expected a name")

	if node == NodeRuleSet {
		p.bumpTrivia()
		if p.curKind() == KindLParen {
			p.parseRuleSetParams()
		}
	}

	p.parseClauses()
	p.parseRules()
	p.b.FinishNode(node)
}

func (p *parser) parseRuleSetParams() {
	p.b.StartNode()
	p.bump() // (
	for !p.atEOF() && p.curKind() != KindRParen && p.curKind() != KindNewline {
		p.bumpTrivia()
		if p.curKind() == KindIdent {
			p.bump()
		} else if p.curKind() == KindComma {
			p.bump()
		} else {
			break
		}
		p.bumpTrivia()
	}
	if p.curKind() == KindRParen {
		p.bump()
	} else {
		p.errorHere("expected ')'")
	}
	p.b.FinishNode(NodeInsertArgs)
}

func (p *parser) parseAlias() {
	p.b.StartNode()
	p.bump() // Alias
	p.bumpTrivia()
	p.expectAndBump(KindColon, "expected ':'")
	p.bumpTrivia()
	p.expectAndBump(KindIdent, "expected alias name")
	p.bumpTrivia()
	p.expectAndBump(KindEquals, "expected '='")
	p.bumpTrivia()
	// URL/canonical: consume the remainder of the line verbatim as one unit.
	for !p.atEOF() && p.curKind() != KindNewline {
		p.bump()
	}
	if p.curKind() == KindNewline {
		p.bump()
	}
	p.b.FinishNode(NodeAlias)
}

var clauseKeyword = map[Kind]Kind{
	KwParent:          NodeParentClause,
	KwId:              NodeIdClause,
	KwTitle:           NodeTitleClause,
	KwDescription:     NodeDescriptionClause,
	KwExpression:      NodeExpressionClause,
	KwXPath:           NodeXPathClause,
	KwSeverity:        NodeSeverityClause,
	KwInstanceOf:      NodeInstanceOfClause,
	KwUsage:           NodeUsageClause,
	KwSource:          NodeSourceClause,
	KwTarget:          NodeTargetClause,
	KwContext:         NodeContextClause,
	KwCharacteristics: NodeCharacteristicsClause,
}

// parseClauses implements
// `Clauses := (ParentClause | IdClause | TitleClause | DescriptionClause | ...)*`.
func (p *parser) parseClauses() {
	p.b.StartNode()
	for {
		p.bumpTrivia()
		clauseNode, ok := clauseKeyword[p.curKind()]
		if !ok {
			break
		}
		p.b.StartNode()
		p.bump() // keyword
		p.bumpTrivia()
		p.expectAndBump(KindColon, "expected ':'")
		p.bumpTrivia()
		for !p.atEOF() && p.curKind() != KindNewline {
			p.bump()
		}
		if p.curKind() == KindNewline {
			p.bump()
		}
		p.b.FinishNode(clauseNode)
	}
	p.b.FinishNode(NodeClauses)
}

// parseRules implements `Rule*` where each Rule starts with '*'. If a
// clause header reappears mid-rule-list the spec's recovery rule applies:
// close the rule and resume (here: clauses only appear before rules in
// well-formed input, so encountering one after rules began is itself
// recovered as an Error-wrapped stray clause).
func (p *parser) parseRules() {
	for {
		p.bumpTrivia()
		if p.atEOF() || TopLevelStarters[p.curKind()] {
			return
		}
		if p.curKind() == KindStar {
			p.parseRule()
			continue
		}
		if _, isClause := clauseKeyword[p.curKind()]; isClause {
			// A clause header found where a rule body is expected: close out
			// (nothing to close here structurally) and consume it inside an
			// Error node so bytes are preserved, then keep scanning rules.
			p.b.StartNode()
			p.bump()
			p.bumpTrivia()
			if p.curKind() == KindColon {
				p.bump()
			}
			for !p.atEOF() && p.curKind() != KindNewline {
				p.bump()
			}
			if p.curKind() == KindNewline {
				p.bump()
			}
			p.b.FinishNode(KindError)
			continue
		}
		p.recoverUnexpectedRule()
	}
}

func (p *parser) recoverUnexpectedRule() {
	p.errorHere("expected a rule ('*...') or a new top-level definition")
	p.b.StartNode()
	for !p.atEOF() && p.curKind() != KindStar && !TopLevelStarters[p.curKind()] && p.curKind() != KindNewline {
		p.bump()
	}
	if p.curKind() == KindNewline {
		p.bump()
	}
	p.b.FinishNode(KindError)
}

// parseRule implements `Rule := '*' (Path)? RuleBody`.
func (p *parser) parseRule() {
	p.b.StartNode()
	p.bump() // '*'
	p.bumpTrivia()

	hasPath := p.tryParsePath()
	p.bumpTrivia()

	// Path (if any) is now a finished sibling child of the Rule node; the
	// checkpoint below only spans the RuleBody tokens that follow it, so
	// Path and the specific RuleBody node end up as siblings under Rule,
	// matching `Rule := '*' (Path)? RuleBody` (spec.md §4.2).
	cp := p.b.Checkpoint()

	kind := p.classifyRuleBody(hasPath)
	switch kind {
	case NodeCardRule:
		p.finishCardRule(cp)
	case NodeFlagRule:
		p.finishFlagRule(cp)
	case NodeBindingRule:
		p.finishBindingRule(cp)
	case NodeFixedValueRule:
		p.finishFixedValueRule(cp)
	case NodeContainsRule:
		p.finishContainsRule(cp)
	case NodeOnlyRule:
		p.finishOnlyRule(cp)
	case NodeObeysRule:
		p.finishObeysRule(cp)
	case NodeCaretValueRule:
		p.finishCaretValueRule(cp)
	case NodeInsertRule:
		p.finishInsertRule(cp)
	default:
		p.finishPathRule(cp)
	}

	p.b.FinishNode(NodeRule)
}

// tryParsePath consumes a leading `Path := PathSegment ('.' PathSegment)*`
// if present, returning whether anything was consumed. A path is present
// whenever the rule doesn't start immediately with a bodies-only keyword
// like 'from', 'contains', 'only', 'obeys', '^', or '='.
func (p *parser) tryParsePath() bool {
	switch p.curKind() {
	case KwFrom, KwContains, KwOnly, KwObeys, KindCaret, KindEquals, KwInsert:
		return false
	}
	if p.curKind() != KindIdent && p.curKind() != KwContentReference {
		return false
	}
	p.b.StartNode()
	p.parsePathSegment()
	for p.curKind() == KindDot {
		p.bump()
		p.parsePathSegment()
	}
	p.b.FinishNode(NodePath)
	return true
}

func (p *parser) parsePathSegment() {
	p.b.StartNode()
	p.bump() // ident (or contentReference keyword used positionally as an ident)
	if p.curKind() == KindLBracket || p.curKind() == KindBracketParam {
		p.parseBracket()
	}
	p.b.FinishNode(NodePathSegment)
}

func (p *parser) parseBracket() {
	p.b.StartNode()
	if p.curKind() == KindBracketParam {
		p.bump()
	} else {
		p.bump() // [
		for !p.atEOF() && p.curKind() != KindRBracket && p.curKind() != KindNewline {
			p.bump()
		}
		if p.curKind() == KindRBracket {
			p.bump()
		}
	}
	p.b.FinishNode(NodeBracket)
}

// classifyRuleBody peeks the current (post-path) token to decide which
// RuleBody alternative applies, per the grammar in spec.md §4.2.
func (p *parser) classifyRuleBody(hasPath bool) Kind {
	switch p.curKind() {
	case KwFrom:
		return NodeBindingRule
	case KindEquals:
		return NodeFixedValueRule
	case KwContains:
		return NodeContainsRule
	case KwOnly:
		return NodeOnlyRule
	case KwObeys:
		return NodeObeysRule
	case KindCaret:
		return NodeCaretValueRule
	case KwInsert:
		return NodeInsertRule
	case KindInteger:
		return NodeCardRule
	case KindFlagMS, KindFlagSU, KindFlagTU, KindFlagN, KindFlagD, KindFlagQuestionBang:
		return NodeFlagRule
	default:
		if !hasPath {
			return NodePathRule
		}
		return NodePathRule
	}
}

func (p *parser) restOfLine() {
	for !p.atEOF() && p.curKind() != KindNewline {
		p.bump()
	}
	if p.curKind() == KindNewline {
		p.bump()
	}
}

func (p *parser) finishCardRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.parseCardinality()
	p.bumpTrivia()
	if isFlag(p.curKind()) {
		p.parseFlags()
	}
	p.restOfLine()
	p.b.FinishNode(NodeCardRule)
}

func (p *parser) parseCardinality() {
	p.b.StartNode()
	if p.curKind() == KindInteger {
		p.bump()
	}
	p.bumpTrivia()
	if p.curKind() == KindDotDot {
		p.bump()
	}
	p.bumpTrivia()
	if p.curKind() == KindInteger || p.curKind() == KindStar {
		p.bump()
	}
	p.b.FinishNode(NodeCardinality)
}

func isFlag(k Kind) bool {
	switch k {
	case KindFlagMS, KindFlagSU, KindFlagTU, KindFlagN, KindFlagD, KindFlagQuestionBang:
		return true
	}
	return false
}

func (p *parser) parseFlags() {
	p.b.StartNode()
	for isFlag(p.curKind()) {
		p.bump()
		p.bumpTrivia()
	}
	p.b.FinishNode(NodeFlags)
}

func (p *parser) finishFlagRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.parseFlags()
	p.restOfLine()
	p.b.FinishNode(NodeFlagRule)
}

func (p *parser) finishBindingRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.bump() // from
	p.bumpTrivia()
	if p.curKind() == KindIdent {
		p.bump()
	}
	p.bumpTrivia()
	if p.curKind() == KindLParen {
		p.bump()
		for !p.atEOF() && p.curKind() != KindRParen && p.curKind() != KindNewline {
			p.bump()
		}
		if p.curKind() == KindRParen {
			p.bump()
		}
	}
	p.restOfLine()
	p.b.FinishNode(NodeBindingRule)
}

func (p *parser) finishFixedValueRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.bump() // =
	p.bumpTrivia()
	p.parseValue()
	p.restOfLine()
	p.b.FinishNode(NodeFixedValueRule)
}

func (p *parser) parseValue() {
	p.b.StartNode()
	for !p.atEOF() && p.curKind() != KindNewline && p.curKind() != KindLParen {
		p.bump()
	}
	if p.curKind() == KindLParen {
		p.bump()
		for !p.atEOF() && p.curKind() != KindRParen && p.curKind() != KindNewline {
			p.bump()
		}
		if p.curKind() == KindRParen {
			p.bump()
		}
	}
	p.b.FinishNode(NodeValue)
}

func (p *parser) finishContainsRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.bump() // contains
	p.bumpTrivia()
	p.parseContainsItem()
	for {
		p.bumpTrivia()
		if p.curKind() != KwAnd {
			break
		}
		p.bump()
		p.bumpTrivia()
		p.parseContainsItem()
	}
	p.restOfLine()
	p.b.FinishNode(NodeContainsRule)
}

func (p *parser) parseContainsItem() {
	p.b.StartNode()
	for !p.atEOF() && p.curKind() != KwAnd && p.curKind() != KindNewline {
		p.bump()
		p.bumpTrivia()
	}
	p.b.FinishNode(NodeContainsItem)
}

func (p *parser) finishOnlyRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.bump() // only
	p.bumpTrivia()
	p.parseTypeRef()
	for {
		p.bumpTrivia()
		if p.curKind() != KwOr {
			break
		}
		p.bump()
		p.bumpTrivia()
		p.parseTypeRef()
	}
	p.restOfLine()
	p.b.FinishNode(NodeOnlyRule)
}

func (p *parser) parseTypeRef() {
	p.b.StartNode()
	for !p.atEOF() && p.curKind() != KwOr && p.curKind() != KindNewline {
		p.bump()
		p.bumpTrivia()
	}
	p.b.FinishNode(NodeTypeRef)
}

func (p *parser) finishObeysRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.bump() // obeys
	p.bumpTrivia()
	for !p.atEOF() && p.curKind() != KindNewline {
		p.bump()
	}
	if p.curKind() == KindNewline {
		p.bump()
	}
	p.b.FinishNode(NodeObeysRule)
}

func (p *parser) finishCaretValueRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.b.StartNode()
	p.bump() // ^
	for !p.atEOF() && p.curKind() != KindEquals && p.curKind() != KindNewline {
		p.bump()
	}
	p.b.FinishNode(NodeCaretPath)
	p.bumpTrivia()
	if p.curKind() == KindEquals {
		p.bump()
		p.bumpTrivia()
		p.parseValue()
	}
	p.restOfLine()
	p.b.FinishNode(NodeCaretValueRule)
}

func (p *parser) finishInsertRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.bump() // insert
	p.bumpTrivia()
	if p.curKind() == KindIdent {
		p.bump()
	}
	p.bumpTrivia()
	if p.curKind() == KindLParen {
		p.b.StartNode()
		p.bump()
		for !p.atEOF() && p.curKind() != KindRParen && p.curKind() != KindNewline {
			p.bump()
		}
		if p.curKind() == KindRParen {
			p.bump()
		}
		p.b.FinishNode(NodeInsertArgs)
	}
	p.restOfLine()
	p.b.FinishNode(NodeInsertRule)
}

func (p *parser) finishPathRule(cp Checkpoint) {
	p.b.StartNodeAt(cp)
	p.restOfLine()
	p.b.FinishNode(NodePathRule)
}

func (p *parser) expectAndBump(kind Kind, msg string) {
	if p.curKind() == kind {
		p.bump()
		return
	}
	p.errorHere(msg)
}
