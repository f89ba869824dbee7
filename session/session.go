// Package session defines the DefinitionSession collaborator boundary
// (spec.md §4.5): everything the semantic and export packages need to know
// about FHIR definitions lives behind this interface, so neither package
// has to own package-download, caching, or registry concerns directly.
package session

import "context"

// ElementDefinition is the subset of a FHIR StructureDefinition.snapshot
// element this toolchain cares about: path, cardinality, and type list.
type ElementDefinition struct {
	Path         string
	Min          int
	Max          string // "*" for unbounded
	Types        []string
	ContentRef   string
	IsChoiceType bool
	IsSliceRoot  bool
	SliceName    string
	Short        string
	Definition   string
}

// StructureDefinition is the minimal snapshot shape resolvers walk: an
// ordered element list plus identifying metadata.
type StructureDefinition struct {
	URL      string
	Name     string
	Type     string
	BaseURL  string
	Elements []ElementDefinition
	Kind     string // "resource", "complex-type", "primitive-type", "logical"
}

// ValueSet is the minimal metadata needed to validate `from` bindings.
type ValueSet struct {
	URL  string
	Name string
	Id   string
}

// CodeSystem is the minimal metadata needed to validate `system` clauses
// and concept references.
type CodeSystem struct {
	URL      string
	Name     string
	Id       string
	Concepts []string
}

// Metadata is a loosely-typed fishing result for artifacts whose concrete
// shape this toolchain does not model (e.g. SearchParameter, OperationDefinition).
type Metadata struct {
	URL  string
	Id   string
	Name string
	Type string
}

// DefinitionSession is the collaborator interface the semantic and export
// packages depend on for everything outside the FSH source itself,
// mirroring the "fish" family of lookups in spec.md §4.5 and grounded on
// original_source's CanonicalFacade/session abstraction.
type DefinitionSession interface {
	// FishByURL resolves a canonical URL to a StructureDefinition.
	FishByURL(ctx context.Context, url string) (*StructureDefinition, error)
	// FishByID resolves a bare id/name (e.g. "Patient", "us-core-patient")
	// to a StructureDefinition, searching loaded packages in dependency order.
	FishByID(ctx context.Context, id string) (*StructureDefinition, error)
	// Fish is the general-purpose lookup SUSHI calls "fish": given a name
	// that could be a URL, id, or name, and a set of acceptable kinds, it
	// returns the first match.
	Fish(ctx context.Context, name string, kinds ...string) (*StructureDefinition, error)
	// FishForMetadata resolves artifacts this session doesn't model as a
	// full StructureDefinition (ValueSet, CodeSystem, or other).
	FishForMetadata(ctx context.Context, name string) (*Metadata, error)
	// EnsurePackages guarantees the given package@version specs are loaded,
	// downloading them if necessary.
	EnsurePackages(ctx context.Context, specs []string) error
	// EnsureCorePackages guarantees the base FHIR core package for the
	// session's release is loaded.
	EnsureCorePackages(ctx context.Context) error
}
