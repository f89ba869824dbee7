package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/export"
	"github.com/termfx/fshlint/orchestrator"
	"github.com/termfx/fshlint/session"
)

func firstEntity(t *testing.T, src string) ast.Entity {
	t.Helper()
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)
	entities := doc.Entities()
	require.NotEmpty(t, entities)
	return entities[0]
}

func patientSession() session.DefinitionSession {
	mem := session.NewMemorySession()
	mem.AddStructureDefinition(&session.StructureDefinition{
		URL:  "http://hl7.org/fhir/StructureDefinition/Patient",
		Name: "Patient",
		Type: "Patient",
		Elements: []session.ElementDefinition{
			{Path: "Patient", Min: 0, Max: "*"},
			{Path: "Patient.name", Min: 0, Max: "*", Types: []string{"HumanName"}},
			{Path: "Patient.gender", Min: 0, Max: "1", Types: []string{"code"}},
		},
	})
	return mem
}

func TestExportProfileBuildsDifferentialFromCardRule(t *testing.T) {
	e := firstEntity(t, "Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n")
	sd, diags, err := export.ExportProfile(context.Background(), "t.fsh", e, patientSession(), nil)
	require.NoError(t, err)
	require.Empty(t, diags)

	kind, _ := sd.Get("kind")
	require.Equal(t, "resource", kind)
	base, _ := sd.Get("baseDefinition")
	require.Equal(t, "http://hl7.org/fhir/StructureDefinition/Patient", base)

	diff, ok := sd.Get("differential")
	require.True(t, ok)
	diffRes := diff.(*export.Resource)
	elems, _ := diffRes.Get("element")
	require.Len(t, elems.([]any), 1)
}

func TestExportProfileFlagsInvalidCardinality(t *testing.T) {
	e := firstEntity(t, "Profile: MyPatient\nParent: Patient\n* name 2..1 MS\n")
	_, diags, err := export.ExportProfile(context.Background(), "t.fsh", e, patientSession(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestExportValueSetBuildsComposeInclude(t *testing.T) {
	e := firstEntity(t, "ValueSet: MyVS\n* include codes from system http://example.org/cs\n")
	vs, diags := export.ExportValueSet("t.fsh", e)
	require.Empty(t, diags)
	rt, _ := vs.Get("resourceType")
	require.Equal(t, "ValueSet", rt)
	compose, ok := vs.Get("compose")
	require.True(t, ok)
	_ = compose
}

func TestExportCodeSystemBuildsConcepts(t *testing.T) {
	e := firstEntity(t, "CodeSystem: MyCS\n* #active \"Active\" \"The item is active\"\n")
	cs, diags := export.ExportCodeSystem("t.fsh", e)
	require.Empty(t, diags)
	concepts, ok := cs.Get("concept")
	require.True(t, ok)
	require.Len(t, concepts.([]any), 1)
}

func TestExportBatchRunsEntitiesConcurrentlyInOrder(t *testing.T) {
	src := "Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n\n" +
		"ValueSet: MyVS\n* include codes from system http://example.org/cs\n"
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)
	entities := doc.Entities()
	require.Len(t, entities, 2)

	x := export.NewExporter(patientSession())
	pool := orchestrator.NewWorkerPool(2)
	units, err := x.ExportBatch(context.Background(), pool, "t.fsh", entities)
	require.NoError(t, err)
	require.Len(t, units, 2)
	require.Equal(t, "MyPatient", units[0].Entity)
	require.Equal(t, "MyVS", units[1].Entity)
}

func TestWriteBatchWritesResourcesAtomically(t *testing.T) {
	src := "Profile: MyPatient\nParent: Patient\n* name 1..1 MS\n"
	res := cst.Parse("t.fsh", []byte(src))
	doc := ast.NewDocument(res.Root)
	entities := doc.Entities()
	require.Len(t, entities, 1)

	x := export.NewExporter(patientSession())
	pool := orchestrator.NewWorkerPool(1)
	units, err := x.ExportBatch(context.Background(), pool, "t.fsh", entities)
	require.NoError(t, err)

	dir := t.TempDir()
	aw := orchestrator.NewAtomicWriter(orchestrator.DefaultAtomicConfig())
	written, errs := export.WriteBatch(dir, units, aw)
	require.Empty(t, errs)
	require.Len(t, written, 1)

	content, err := os.ReadFile(filepath.Join(dir, "MyPatient.json"))
	require.NoError(t, err)
	require.Contains(t, string(content), "\"resourceType\"")
}

func TestBuildCacheInvalidatesOnDependencyChange(t *testing.T) {
	cache := export.NewBuildCache()
	cache.Store("t.fsh", export.CacheEntry{
		ContentHash:  "abc",
		Dependencies: []string{"Patient"},
	})

	_, ok := cache.Lookup("t.fsh", "abc", map[string]bool{})
	require.True(t, ok)

	_, ok = cache.Lookup("t.fsh", "abc", map[string]bool{"Patient": true})
	require.False(t, ok)

	_, ok = cache.Lookup("t.fsh", "different-hash", map[string]bool{})
	require.False(t, ok)
}
