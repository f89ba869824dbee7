// Command fshlint-corecheck is a thin end-to-end smoke test for the
// fshlint toolchain: discover config, parse every matched .fsh file,
// build the cross-file semantic layer, run the rule registry, and print
// diagnostics in the requested format.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/config"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
	"github.com/termfx/fshlint/export"
	"github.com/termfx/fshlint/orchestrator"
	"github.com/termfx/fshlint/rules"
	"github.com/termfx/fshlint/semantic"
	"github.com/termfx/fshlint/session"
)

var (
	verbose    bool
	formatFlag string
	outDir     string
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fshlint-corecheck [path]",
	Short: "Lint a directory of FHIR Shorthand files",
	Long: `fshlint-corecheck discovers a .makirc/maki config, parses every
matched FSH file, builds the cross-file symbol table and dependency graph,
and runs the rule registry against the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = ""
		var err error
		logger, err = cfg.Build()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "human", "output format: human, compact, json, sarif, github")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "export FHIR JSON resources into this directory (skipped when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLint(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	cfgPath, err := config.Discover(absRoot)
	if err != nil {
		return fmt.Errorf("discover config: %w", err)
	}

	cfg := &config.Config{Files: config.FilesConfig{Include: []string{"**/*.fsh"}}}
	if cfgPath != "" {
		logger.Debug("found config", zap.String("path", cfgPath))
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	files, err := discoverFiles(absRoot, cfg.Files)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("no FSH files matched", zap.String("root", absRoot))
		return nil
	}

	docs := make(map[string]ast.Document, len(files))
	roots := make(map[string]*cst.Node, len(files))
	srcs := make(map[string][]byte, len(files))
	var diags []diagnostic.Diagnostic

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		result := cst.Parse(file, src)
		doc := ast.NewDocument(result.Root)
		docs[file] = doc
		roots[file] = result.Root
		srcs[file] = src
		diags = append(diags, result.Diagnostics...)
	}

	symbols := semantic.NewSymbolTable(docs)
	var refs []semantic.Reference
	for _, doc := range docs {
		refs = append(refs, semantic.CollectReferences(doc)...)
	}
	graph := semantic.NewDependencyGraph(refs)
	ruleSets := semantic.NewRuleSetRegistry()
	for file, doc := range docs {
		ruleSets.Collect(file, doc)
	}

	registry := rules.DefaultRegistry()
	for file, doc := range docs {
		model := rules.Model{
			File:     file,
			Doc:      doc,
			Root:     roots[file],
			Src:      srcs[file],
			Symbols:  symbols,
			Graph:    graph,
			RuleSets: ruleSets,
		}
		diags = append(diags, registry.Run(model, nil)...)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		exporter := export.NewExporter(session.NewMemorySession())
		pool := orchestrator.NewWorkerPool(0)
		aw := orchestrator.NewAtomicWriter(orchestrator.DefaultAtomicConfig())
		for file, doc := range docs {
			entities := doc.Entities()
			if len(entities) == 0 {
				continue
			}
			units, err := exporter.ExportBatch(cmd.Context(), pool, file, entities)
			if err != nil {
				logger.Warn("export failed", zap.String("file", file), zap.Error(err))
			}
			for _, u := range units {
				diags = append(diags, u.Diags...)
			}
			written, writeErrs := export.WriteBatch(outDir, units, aw)
			for _, we := range writeErrs {
				logger.Warn("write resource failed", zap.String("file", file), zap.Error(we))
			}
			logger.Debug("exported resources", zap.String("file", file), zap.Int("count", len(written)))
		}
	}

	diags = diagnostic.SortDeterministic(diags)
	out, err := render(diags)
	if err != nil {
		return fmt.Errorf("render diagnostics: %w", err)
	}
	fmt.Println(out)

	for _, d := range diags {
		if d.Severity == diagnostic.SeverityError {
			os.Exit(1)
		}
	}
	return nil
}

func render(diags []diagnostic.Diagnostic) (string, error) {
	switch formatFlag {
	case "compact":
		return diagnostic.ToCompact(diags), nil
	case "json":
		b, err := diagnostic.ToJSON(diags)
		return string(b), err
	case "sarif":
		b, err := diagnostic.ToSARIF(diags, "fshlint-corecheck", "0.1.0", "https://github.com/termfx/fshlint")
		return string(b), err
	case "github":
		return diagnostic.ToGitHubActions(diags), nil
	default:
		return diagnostic.ToHuman(diags), nil
	}
}

func discoverFiles(root string, files config.FilesConfig) ([]string, error) {
	include := files.Include
	if len(include) == 0 {
		include = []string{"**/*.fsh"}
	}

	var matched []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel) {
			return nil
		}
		if matchesAny(files.Exclude, rel) {
			return nil
		}
		matched = append(matched, path)
		return nil
	})
	return matched, err
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
