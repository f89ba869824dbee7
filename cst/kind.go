// Package cst implements the lossless concrete syntax tree for FSH source:
// an immutable, structurally-shared "green" tree plus cheap "red" wrappers
// that add parent pointers and absolute offsets, per spec.md §3.2. The
// design mirrors the rowan-based tree in original_source's
// fsh-lint-core/src/cst (FshSyntaxNode/FshSyntaxKind), translated into Go's
// value/interface idiom instead of Rust's newtype-over-rowan.
package cst

// Kind tags every node and token in the tree. The enumeration mirrors
// spec.md §2's closed ~200-kind set; this implementation carries the
// subset actually exercised by the grammar in §4.2, grouped by category.
type Kind uint16

const (
	KindUnknown Kind = iota

	// Trivia
	KindWhitespace
	KindNewline
	KindCommentLine
	KindCommentBlock
	KindError
	KindEOF

	// Literals
	KindIdent
	KindString
	KindInteger
	KindDecimal
	KindCode
	KindUrl
	KindRegex
	KindUnit
	KindCanonical
	KindReference
	KindCodeableReference
	KindDateTime
	KindTime
	KindTrue
	KindFalse
	KindBracketParam // bracketed parameter token, e.g. "[home]", lexed as one unit

	// Punctuation
	KindColon
	KindStar
	KindEquals
	KindCaret
	KindDot
	KindDotDot
	KindHash
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace
	KindComma
	KindMinus
	KindGreaterThan
	KindLessThan
	KindQuestion
	KindBang
	KindPercent
	KindArrow // ->
	KindPlusEquals
	KindPlus
	KindSlash
	KindBackslash

	// Flags
	KindFlagMS
	KindFlagSU
	KindFlagTU
	KindFlagN
	KindFlagD
	KindFlagQuestionBang

	// Keywords
	KwProfile
	KwExtension
	KwValueSet
	KwCodeSystem
	KwInstance
	KwInvariant
	KwMapping
	KwLogical
	KwResource
	KwAlias
	KwRuleSet
	KwParent
	KwId
	KwTitle
	KwDescription
	KwExpression
	KwXPath
	KwSeverity
	KwInstanceOf
	KwUsage
	KwSource
	KwTarget
	KwContext
	KwCharacteristics
	KwFrom
	KwOnly
	KwObeys
	KwContains
	KwNamed
	KwAnd
	KwOr
	KwInsert
	KwInclude
	KwExclude
	KwCodes
	KwWhere
	KwSystem
	KwValueset
	KwContentReference
	KwExactly

	// Binding strengths
	KwRequired
	KwExtensible
	KwPreferred
	KwExample

	// Top-level and structural nodes
	NodeDocument
	NodeAlias
	NodeProfile
	NodeExtension
	NodeValueSet
	NodeCodeSystem
	NodeInstance
	NodeInvariant
	NodeMapping
	NodeLogical
	NodeResource
	NodeRuleSet

	NodeClauses
	NodeParentClause
	NodeIdClause
	NodeTitleClause
	NodeDescriptionClause
	NodeExpressionClause
	NodeXPathClause
	NodeSeverityClause
	NodeInstanceOfClause
	NodeUsageClause
	NodeSourceClause
	NodeTargetClause
	NodeContextClause
	NodeCharacteristicsClause

	NodeRule
	NodePath
	NodePathSegment
	NodeBracket

	NodeCardRule
	NodeFlagRule
	NodeBindingRule
	NodeFixedValueRule
	NodeContainsRule
	NodeContainsItem
	NodeOnlyRule
	NodeTypeRef
	NodeObeysRule
	NodeCaretValueRule
	NodeCaretPath
	NodeInsertRule
	NodeInsertArgs
	NodePathRule
	NodeAddElementRule
	NodeCodeCaretValueRule
	NodeCodeInsertRule

	NodeValue
	NodeCardinality
	NodeFlags
)

// IsTrivia reports whether a kind belongs to the whitespace/comment class
// that the lexer must still emit (round-trip invariant, spec.md §3.2) but
// that most consumers skip.
func (k Kind) IsTrivia() bool {
	switch k {
	case KindWhitespace, KindNewline, KindCommentLine, KindCommentBlock:
		return true
	default:
		return false
	}
}

// IsToken reports whether k is a leaf (token) kind as opposed to an inner
// node kind. Node kinds are all >= NodeDocument in this enumeration, except
// KindError: the parser tags its Error recovery nodes with KindError, which
// sits below NodeDocument, so IsToken reports true for it.
func (k Kind) IsToken() bool {
	return k < NodeDocument
}

//go:generate stringer -type=Kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

var kindNames = map[Kind]string{
	KindUnknown:           "Unknown",
	KindWhitespace:        "Whitespace",
	KindNewline:           "Newline",
	KindCommentLine:       "CommentLine",
	KindCommentBlock:      "CommentBlock",
	KindError:             "Error",
	KindEOF:               "EOF",
	KindIdent:             "Ident",
	KindString:            "String",
	KindInteger:           "Integer",
	KindDecimal:           "Decimal",
	KindCode:              "Code",
	KindUrl:               "Url",
	KindRegex:             "Regex",
	KindUnit:              "Unit",
	KindCanonical:         "Canonical",
	KindReference:         "Reference",
	KindCodeableReference: "CodeableReference",
	KindDateTime:          "DateTime",
	KindTime:              "Time",
	KindTrue:              "True",
	KindFalse:             "False",
	KindBracketParam:      "BracketParam",
	KindColon:             "Colon",
	KindStar:              "Star",
	KindEquals:            "Equals",
	KindCaret:             "Caret",
	KindDot:               "Dot",
	KindDotDot:            "DotDot",
	KindHash:              "Hash",
	KindLParen:            "LParen",
	KindRParen:            "RParen",
	KindLBracket:          "LBracket",
	KindRBracket:          "RBracket",
	KindLBrace:            "LBrace",
	KindRBrace:            "RBrace",
	KindComma:             "Comma",
	KindMinus:             "Minus",
	KindGreaterThan:       "GreaterThan",
	KindLessThan:          "LessThan",
	KindQuestion:          "Question",
	KindBang:              "Bang",
	KindPercent:           "Percent",
	KindArrow:             "Arrow",
	KindPlusEquals:        "PlusEquals",
	KindPlus:              "Plus",
	KindSlash:             "Slash",
	KindBackslash:         "Backslash",
	KindFlagMS:            "FlagMS",
	KindFlagSU:            "FlagSU",
	KindFlagTU:            "FlagTU",
	KindFlagN:             "FlagN",
	KindFlagD:             "FlagD",
	KindFlagQuestionBang:  "FlagQuestionBang",
	KwProfile:             "ProfileKw",
	KwExtension:           "ExtensionKw",
	KwValueSet:            "ValueSetKw",
	KwCodeSystem:          "CodeSystemKw",
	KwInstance:            "InstanceKw",
	KwInvariant:           "InvariantKw",
	KwMapping:             "MappingKw",
	KwLogical:             "LogicalKw",
	KwResource:            "ResourceKw",
	KwAlias:               "AliasKw",
	KwRuleSet:             "RuleSetKw",
	KwParent:              "ParentKw",
	KwId:                  "IdKw",
	KwTitle:               "TitleKw",
	KwDescription:         "DescriptionKw",
	KwExpression:          "ExpressionKw",
	KwXPath:               "XPathKw",
	KwSeverity:            "SeverityKw",
	KwInstanceOf:          "InstanceOfKw",
	KwUsage:               "UsageKw",
	KwSource:              "SourceKw",
	KwTarget:              "TargetKw",
	KwContext:             "ContextKw",
	KwCharacteristics:     "CharacteristicsKw",
	KwFrom:                "FromKw",
	KwOnly:                "OnlyKw",
	KwObeys:               "ObeysKw",
	KwContains:            "ContainsKw",
	KwNamed:               "NamedKw",
	KwAnd:                 "AndKw",
	KwOr:                  "OrKw",
	KwInsert:              "InsertKw",
	KwInclude:             "IncludeKw",
	KwExclude:             "ExcludeKw",
	KwCodes:               "CodesKw",
	KwWhere:               "WhereKw",
	KwSystem:              "SystemKw",
	KwValueset:            "ValuesetKw",
	KwContentReference:    "ContentReferenceKw",
	KwExactly:             "ExactlyKw",
	KwRequired:            "RequiredKw",
	KwExtensible:          "ExtensibleKw",
	KwPreferred:           "PreferredKw",
	KwExample:             "ExampleKw",
	NodeDocument:             "Document",
	NodeAlias:                "Alias",
	NodeProfile:              "Profile",
	NodeExtension:            "Extension",
	NodeValueSet:             "ValueSet",
	NodeCodeSystem:           "CodeSystem",
	NodeInstance:             "Instance",
	NodeInvariant:            "Invariant",
	NodeMapping:              "Mapping",
	NodeLogical:              "Logical",
	NodeResource:             "Resource",
	NodeRuleSet:              "RuleSet",
	NodeClauses:              "Clauses",
	NodeParentClause:         "ParentClause",
	NodeIdClause:             "IdClause",
	NodeTitleClause:          "TitleClause",
	NodeDescriptionClause:    "DescriptionClause",
	NodeExpressionClause:     "ExpressionClause",
	NodeXPathClause:          "XPathClause",
	NodeSeverityClause:       "SeverityClause",
	NodeInstanceOfClause:     "InstanceOfClause",
	NodeUsageClause:          "UsageClause",
	NodeSourceClause:         "SourceClause",
	NodeTargetClause:         "TargetClause",
	NodeContextClause:        "ContextClause",
	NodeCharacteristicsClause: "CharacteristicsClause",
	NodeRule:                 "Rule",
	NodePath:                 "Path",
	NodePathSegment:          "PathSegment",
	NodeBracket:              "Bracket",
	NodeCardRule:             "CardRule",
	NodeFlagRule:             "FlagRule",
	NodeBindingRule:          "BindingRule",
	NodeFixedValueRule:       "FixedValueRule",
	NodeContainsRule:         "ContainsRule",
	NodeContainsItem:         "ContainsItem",
	NodeOnlyRule:             "OnlyRule",
	NodeTypeRef:              "TypeRef",
	NodeObeysRule:            "ObeysRule",
	NodeCaretValueRule:       "CaretValueRule",
	NodeCaretPath:            "CaretPath",
	NodeInsertRule:           "InsertRule",
	NodeInsertArgs:           "InsertArgs",
	NodePathRule:             "PathRule",
	NodeAddElementRule:       "AddElementRule",
	NodeCodeCaretValueRule:   "CodeCaretValueRule",
	NodeCodeInsertRule:       "CodeInsertRule",
	NodeValue:                "Value",
	NodeCardinality:          "Cardinality",
	NodeFlags:                "Flags",
}

// Keywords maps the literal source spelling of each keyword to its Kind.
var Keywords = map[string]Kind{
	"Profile":           KwProfile,
	"Extension":         KwExtension,
	"ValueSet":          KwValueSet,
	"CodeSystem":        KwCodeSystem,
	"Instance":          KwInstance,
	"Invariant":         KwInvariant,
	"Mapping":           KwMapping,
	"Logical":           KwLogical,
	"Resource":          KwResource,
	"Alias":             KwAlias,
	"RuleSet":           KwRuleSet,
	"Parent":            KwParent,
	"Id":                KwId,
	"Title":             KwTitle,
	"Description":       KwDescription,
	"Expression":        KwExpression,
	"XPath":             KwXPath,
	"Severity":          KwSeverity,
	"InstanceOf":        KwInstanceOf,
	"Usage":             KwUsage,
	"Source":            KwSource,
	"Target":            KwTarget,
	"Context":           KwContext,
	"Characteristics":   KwCharacteristics,
	"from":              KwFrom,
	"only":              KwOnly,
	"obeys":             KwObeys,
	"contains":          KwContains,
	"named":             KwNamed,
	"and":               KwAnd,
	"or":                KwOr,
	"insert":            KwInsert,
	"include":           KwInclude,
	"exclude":           KwExclude,
	"codes":             KwCodes,
	"where":             KwWhere,
	"system":            KwSystem,
	"valueset":          KwValueset,
	"contentReference":  KwContentReference,
	"exactly":           KwExactly,
	"required":          KwRequired,
	"extensible":        KwExtensible,
	"preferred":         KwPreferred,
	"example":           KwExample,
	"true":              KindTrue,
	"false":             KindFalse,
}

// TopLevelStarters is the set of keywords that introduce a new TopLevel
// block; used by the parser's error-recovery logic (spec.md §4.2).
var TopLevelStarters = map[Kind]bool{
	KwProfile: true, KwExtension: true, KwValueSet: true, KwCodeSystem: true,
	KwInstance: true, KwInvariant: true, KwMapping: true, KwLogical: true,
	KwResource: true, KwAlias: true, KwRuleSet: true,
}
