// Package semantic builds the name-resolution and dependency layer on top
// of the ast package: symbol table, cross-reference list, dependency graph,
// path resolver against a DefinitionSession, and the rule-set expander
// (spec.md §4.4).
package semantic

import (
	"fmt"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
)

// EntityKind classifies a Symbol for consumers that need to distinguish
// profile/extension/valueset/etc. without re-inspecting the CST kind.
type EntityKind int

const (
	EntityUnknown EntityKind = iota
	EntityProfile
	EntityExtension
	EntityValueSet
	EntityCodeSystem
	EntityInstance
	EntityInvariant
	EntityMapping
	EntityLogical
	EntityResource
	EntityRuleSet
	EntityAlias
)

func entityKindOf(k cst.Kind) EntityKind {
	switch k {
	case cst.NodeProfile:
		return EntityProfile
	case cst.NodeExtension:
		return EntityExtension
	case cst.NodeValueSet:
		return EntityValueSet
	case cst.NodeCodeSystem:
		return EntityCodeSystem
	case cst.NodeInstance:
		return EntityInstance
	case cst.NodeInvariant:
		return EntityInvariant
	case cst.NodeMapping:
		return EntityMapping
	case cst.NodeLogical:
		return EntityLogical
	case cst.NodeResource:
		return EntityResource
	case cst.NodeRuleSet:
		return EntityRuleSet
	case cst.NodeAlias:
		return EntityAlias
	default:
		return EntityUnknown
	}
}

// Symbol is one entry in the SymbolTable: an entity's declared name, the
// file it was declared in, and the typed ast.Entity view for later lookup.
type Symbol struct {
	Name   string
	Kind   EntityKind
	File   string
	Entity ast.Entity
}

// Duplicate records a name collision detected while building a SymbolTable.
type Duplicate struct {
	Name   string
	First  Symbol
	Second Symbol
}

func (d Duplicate) Error() string {
	return fmt.Sprintf("duplicate entity name %q: declared in %s and %s", d.Name, d.First.File, d.Second.File)
}

// SymbolTable maps fully-qualified entity names to their declaring Symbol,
// per spec.md §4.4's "name -> entity" requirement. Aliases are tracked in a
// separate map since they resolve to canonical URLs, not entities.
type SymbolTable struct {
	symbols    map[string]Symbol
	aliases    map[string]string
	Duplicates []Duplicate
}

// NewSymbolTable builds a table from a set of (file, Document) pairs,
// recording every duplicate name rather than failing fast, so diagnostics
// can be reported for all of them in one pass.
func NewSymbolTable(docs map[string]ast.Document) *SymbolTable {
	st := &SymbolTable{
		symbols: make(map[string]Symbol),
		aliases: make(map[string]string),
	}
	for file, doc := range docs {
		for _, e := range doc.Entities() {
			name, ok := e.Name()
			if e.Kind() == cst.NodeAlias {
				if target, ok := e.AliasTarget(); ok {
					if aliasName, ok2 := aliasName(e); ok2 {
						st.aliases[aliasName] = target
					}
				}
				continue
			}
			if !ok {
				continue
			}
			sym := Symbol{Name: name, Kind: entityKindOf(e.Kind()), File: file, Entity: e}
			if existing, dup := st.symbols[name]; dup {
				st.Duplicates = append(st.Duplicates, Duplicate{Name: name, First: existing, Second: sym})
				continue
			}
			st.symbols[name] = sym
		}
	}
	return st
}

// aliasName recovers the "$X" token that an Alias entity binds, since
// ast.Entity.Name() expects a plain Ident per the common-entity shape.
func aliasName(e ast.Entity) (string, bool) {
	text := e.Node().Text()
	for i := 0; i < len(text); i++ {
		if text[i] == '$' {
			j := i + 1
			for j < len(text) && text[j] != ' ' && text[j] != '=' && text[j] != '\n' {
				j++
			}
			return text[i:j], true
		}
	}
	return "", false
}

// Lookup returns the Symbol declared under name, if any.
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	s, ok := st.symbols[name]
	return s, ok
}

// ResolveAlias returns the canonical URL bound to a "$alias" name.
func (st *SymbolTable) ResolveAlias(alias string) (string, bool) {
	u, ok := st.aliases[alias]
	return u, ok
}

// All returns every symbol in declaration order is not guaranteed; callers
// needing determinism should sort by Name.
func (st *SymbolTable) All() []Symbol {
	out := make([]Symbol, 0, len(st.symbols))
	for _, s := range st.symbols {
		out = append(out, s)
	}
	return out
}
