package decompile

// RawElement is the subset of a FHIR ElementDefinition the decompiler's
// extractors read from, mirroring session.ElementDefinition's shape but
// carrying the additional flag/binding/fixed-value fields a differential
// element needs for round-tripping back to FSH.
type RawElement struct {
	Path            string
	Min             *int
	Max             string
	MustSupport     bool
	IsSummary       bool
	IsModifier      bool
	Types           []string
	BindingStrength string
	BindingValueSet string
	FixedKey        string // e.g. "fixedBoolean", "patternCodeableConcept"
	FixedValue      string
	Short           string
	Definition      string
	Comment         string
	Constraints     []RawConstraint
	SliceName       string
}

// RawConstraint mirrors one ElementDefinition.constraint[] entry.
type RawConstraint struct {
	Key        string
	Severity   string
	Human      string
	Expression string
}

// processedSet tracks which of an element's fields an extractor has
// already consumed, so later extractors in the pipeline skip them.
type processedSet map[string]bool

func (p processedSet) mark(field string)     { p[field] = true }
func (p processedSet) has(field string) bool { return p[field] }
