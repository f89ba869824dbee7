package session

import (
	"context"
	"fmt"
)

// MemorySession is an in-memory DefinitionSession used by tests and by the
// corecheck smoke-test binary: it never touches the network, serving only
// StructureDefinitions/ValueSets/CodeSystems registered ahead of time.
type MemorySession struct {
	structs    map[string]*StructureDefinition
	byName     map[string]*StructureDefinition
	valueSets  map[string]*ValueSet
	codeSys    map[string]*CodeSystem
	EnsureErr  error
}

// NewMemorySession returns an empty session; call AddStructureDefinition
// etc. to populate it before use.
func NewMemorySession() *MemorySession {
	return &MemorySession{
		structs:   make(map[string]*StructureDefinition),
		byName:    make(map[string]*StructureDefinition),
		valueSets: make(map[string]*ValueSet),
		codeSys:   make(map[string]*CodeSystem),
	}
}

func (m *MemorySession) AddStructureDefinition(sd *StructureDefinition) {
	m.structs[sd.URL] = sd
	m.byName[sd.Name] = sd
	m.byName[sd.Type] = sd
}

func (m *MemorySession) AddValueSet(vs *ValueSet) {
	m.valueSets[vs.URL] = vs
	m.valueSets[vs.Name] = vs
	m.valueSets[vs.Id] = vs
}

func (m *MemorySession) AddCodeSystem(cs *CodeSystem) {
	m.codeSys[cs.URL] = cs
	m.codeSys[cs.Name] = cs
	m.codeSys[cs.Id] = cs
}

func (m *MemorySession) FishByURL(_ context.Context, url string) (*StructureDefinition, error) {
	if sd, ok := m.structs[url]; ok {
		return sd, nil
	}
	return nil, fmt.Errorf("no structure definition for url %q", url)
}

func (m *MemorySession) FishByID(_ context.Context, id string) (*StructureDefinition, error) {
	if sd, ok := m.byName[id]; ok {
		return sd, nil
	}
	return nil, fmt.Errorf("no structure definition for id %q", id)
}

func (m *MemorySession) Fish(_ context.Context, name string, kinds ...string) (*StructureDefinition, error) {
	if sd, ok := m.structs[name]; ok {
		return sd, nil
	}
	if sd, ok := m.byName[name]; ok {
		return sd, nil
	}
	return nil, fmt.Errorf("no match for %q (kinds=%v)", name, kinds)
}

func (m *MemorySession) FishForMetadata(_ context.Context, name string) (*Metadata, error) {
	if vs, ok := m.valueSets[name]; ok {
		return &Metadata{URL: vs.URL, Id: vs.Id, Name: vs.Name, Type: "ValueSet"}, nil
	}
	if cs, ok := m.codeSys[name]; ok {
		return &Metadata{URL: cs.URL, Id: cs.Id, Name: cs.Name, Type: "CodeSystem"}, nil
	}
	return nil, fmt.Errorf("no metadata for %q", name)
}

func (m *MemorySession) EnsurePackages(_ context.Context, _ []string) error { return m.EnsureErr }

func (m *MemorySession) EnsureCorePackages(_ context.Context) error { return m.EnsureErr }
