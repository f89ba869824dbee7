package semantic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/semantic"
	"github.com/termfx/fshlint/session"
)

func testPatientSession() *session.MemorySession {
	sess := session.NewMemorySession()
	sess.AddStructureDefinition(&session.StructureDefinition{
		URL:  "http://hl7.org/fhir/StructureDefinition/Patient",
		Name: "Patient",
		Type: "Patient",
		Kind: "resource",
		Elements: []session.ElementDefinition{
			{Path: "Patient.name", Min: 0, Max: "*", Types: []string{"HumanName"}},
			{Path: "Patient.gender", Min: 0, Max: "1", Types: []string{"code"}},
			{Path: "Patient.deceased[x]", Min: 0, Max: "1", Types: []string{"boolean", "dateTime"}},
		},
	})
	sess.AddStructureDefinition(&session.StructureDefinition{
		URL:  "http://hl7.org/fhir/StructureDefinition/HumanName",
		Name: "HumanName",
		Type: "HumanName",
		Kind: "complex-type",
		Elements: []session.ElementDefinition{
			{Path: "HumanName.given", Min: 0, Max: "*", Types: []string{"string"}},
		},
	})
	return sess
}

func TestResolvePathSimple(t *testing.T) {
	r := semantic.NewPathResolver(testPatientSession())
	el, err := r.ResolvePath(context.Background(), "Patient", "name")
	require.NoError(t, err)
	require.Equal(t, "Patient.name", el.Path)
}

func TestResolvePathNested(t *testing.T) {
	r := semantic.NewPathResolver(testPatientSession())
	el, err := r.ResolvePath(context.Background(), "Patient", "name.given")
	require.NoError(t, err)
	require.Equal(t, "HumanName.given", el.Path)
}

func TestResolvePathChoiceType(t *testing.T) {
	r := semantic.NewPathResolver(testPatientSession())
	el, err := r.ResolvePath(context.Background(), "Patient", "deceased[x]")
	require.NoError(t, err)
	require.True(t, el.IsChoiceType)
}

func TestResolvePathInvalid(t *testing.T) {
	r := semantic.NewPathResolver(testPatientSession())
	_, err := r.ResolvePath(context.Background(), "Patient", "invalid.path")
	require.Error(t, err)
}

func TestResolvePathCacheEffectiveness(t *testing.T) {
	r := semantic.NewPathResolver(testPatientSession())
	_, err := r.ResolvePath(context.Background(), "Patient", "name")
	require.NoError(t, err)
	n, _ := r.CacheStats()
	require.Equal(t, 1, n)

	_, err = r.ResolvePath(context.Background(), "Patient", "name")
	require.NoError(t, err)
	n, _ = r.CacheStats()
	require.Equal(t, 1, n)

	_, err = r.ResolvePath(context.Background(), "Patient", "gender")
	require.NoError(t, err)
	n, _ = r.CacheStats()
	require.Equal(t, 2, n)
}
