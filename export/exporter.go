package export

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/orchestrator"
	"github.com/termfx/fshlint/semantic"
	"github.com/termfx/fshlint/session"
)

// Unit is one entity's export outcome: the JSON resource (nil for
// Invariant/Mapping/RuleSet/Alias entities, which contribute no output
// resource of their own), its destination usage, and any diagnostics.
type Unit struct {
	Entity   string
	Resource *Resource
	Usage    InstanceUsage
	Diags    []diagnostic.Diagnostic
}

// Exporter runs Phase 2 (§4.6.3) over already-collected rule sets and
// expanded inserts, dispatching each entity to its typed exporter.
type Exporter struct {
	Session  session.DefinitionSession
	Resolver *semantic.PathResolver
}

func NewExporter(sess session.DefinitionSession) *Exporter {
	return &Exporter{Session: sess, Resolver: semantic.NewPathResolver(sess)}
}

// ExportEntity dispatches e to its typed exporter by CST kind.
func (x *Exporter) ExportEntity(ctx context.Context, file string, e ast.Entity) (*Unit, error) {
	name, _ := e.Name()
	switch e.Kind() {
	case cst.NodeProfile:
		sd, diags, err := ExportProfile(ctx, file, e, x.Session, x.Resolver)
		if err != nil {
			return nil, err
		}
		return &Unit{Entity: name, Resource: sd, Usage: UsageDefinition, Diags: diags}, nil
	case cst.NodeExtension:
		sd, diags, err := ExportExtension(ctx, file, e, x.Session, x.Resolver)
		if err != nil {
			return nil, err
		}
		return &Unit{Entity: name, Resource: sd, Usage: UsageDefinition, Diags: diags}, nil
	case cst.NodeValueSet:
		vs, diags := ExportValueSet(file, e)
		return &Unit{Entity: name, Resource: vs, Usage: UsageDefinition, Diags: diags}, nil
	case cst.NodeCodeSystem:
		cs, diags := ExportCodeSystem(file, e)
		return &Unit{Entity: name, Resource: cs, Usage: UsageDefinition, Diags: diags}, nil
	case cst.NodeInstance:
		res, usage, diags := ExportInstance(file, e)
		return &Unit{Entity: name, Resource: res, Usage: usage, Diags: diags}, nil
	case cst.NodeLogical:
		sd, diags := ExportLogical(file, e, "logical")
		return &Unit{Entity: name, Resource: sd, Usage: UsageDefinition, Diags: diags}, nil
	case cst.NodeResource:
		sd, diags := ExportLogical(file, e, "resource")
		return &Unit{Entity: name, Resource: sd, Usage: UsageDefinition, Diags: diags}, nil
	case cst.NodeInvariant, cst.NodeMapping, cst.NodeRuleSet, cst.NodeAlias:
		return &Unit{Entity: name}, nil
	default:
		return nil, fmt.Errorf("export: unsupported entity kind %v for %s", e.Kind(), name)
	}
}

// ExportBatch runs ExportEntity over entities in the order given (a
// processing batch from semantic.DependencyGraph.ProcessingBatches),
// dispatching the entities of this single batch across pool so distinct
// entities within the same topological batch export concurrently, per
// spec.md §5. Output order follows the input order regardless of which
// goroutine finishes first.
func (x *Exporter) ExportBatch(ctx context.Context, pool *orchestrator.WorkerPool, file string, entities []ast.Entity) ([]*Unit, error) {
	batches, errs := orchestrator.RunBatches(ctx, pool, [][]ast.Entity{entities}, func(ctx context.Context, e ast.Entity) (*Unit, error) {
		return x.ExportEntity(ctx, file, e)
	})
	out := batches[0]
	if len(errs) > 0 {
		return out, errs[0]
	}
	return out, nil
}

// WriteBatch marshals every unit's Resource to indented JSON and writes it
// to <outDir>/<entity>.json through aw's temp-file-then-rename path, per
// spec.md §5's atomic resource-output guarantee. Units with a nil Resource
// (Invariant/Mapping/RuleSet/Alias entities) are skipped. Returns the paths
// written and any per-unit write errors; a failure on one unit does not
// stop the rest from being written.
func WriteBatch(outDir string, units []*Unit, aw *orchestrator.AtomicWriter) ([]string, []error) {
	var written []string
	var errs []error
	for _, u := range units {
		if u == nil || u.Resource == nil {
			continue
		}
		content, err := json.MarshalIndent(u.Resource, "", "  ")
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal %s: %w", u.Entity, err))
			continue
		}
		path := filepath.Join(outDir, u.Entity+".json")
		if err := aw.WriteFile(path, content); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", u.Entity, err))
			continue
		}
		written = append(written, path)
	}
	return written, errs
}
