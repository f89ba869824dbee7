// Package config implements layered configuration discovery and merging,
// per spec.md §6.2: a koanf-based loader walks the directory tree looking
// for one of the recognized config filenames, resolves an `extends` chain
// with cycle detection, and merges child-over-parent with array-union
// semantics for the fields that call for it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultConfigMap is the lowest-priority layer Load merges in before any
// file or env override: a linter enabled by default, no rule directories
// or extra ignore files, matching FSH toolchains' usual "lint everything
// under the working directory" baseline.
func defaultConfigMap() map[string]any {
	return map[string]any{
		"linter": map[string]any{
			"enabled": true,
		},
		"files": map[string]any{
			"include": []string{"**/*.fsh"},
		},
	}
}

// envPrefix is the environment-variable namespace consulted after the
// file/extends chain is merged, letting CI invocations override e.g.
// FSHLINT_LINTER_ENABLED=false without touching a committed config file.
const envPrefix = "FSHLINT_"

// discoveryOrder is the fixed filename priority spec.md §6.2 mandates.
var discoveryOrder = []string{
	".makirc.json",
	".makirc.toml",
	"maki.yaml",
	"maki.yml",
	"maki.json",
}

// Config is the fully merged, ready-to-use configuration.
type Config struct {
	Linter  LinterConfig `koanf:"linter"`
	Files   FilesConfig  `koanf:"files"`
	Extends string       `koanf:"extends"`
}

type LinterConfig struct {
	Enabled         *bool             `koanf:"enabled"`
	Rules           map[string]string `koanf:"rules"`
	RuleDirectories []string          `koanf:"ruleDirectories"`
}

type FilesConfig struct {
	Include     []string `koanf:"include"`
	Exclude     []string `koanf:"exclude"`
	IgnoreFiles []string `koanf:"ignoreFiles"`
}

// Discover walks upward from startDir looking for the first file in
// discoveryOrder, per spec.md §6.2. Returns ("", nil) if none is found
// before reaching the filesystem root.
func Discover(startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("config discover: %w", err)
	}
	for {
		for _, name := range discoveryOrder {
			candidate := filepath.Join(current, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// envTransform maps FSHLINT_LINTER_ENABLED -> "linter.enabled", lowercasing
// and replacing "_" with "." after stripping envPrefix, matching koanf's
// conventional env-to-dotted-key transform.
func envTransform(key, value string) (string, any) {
	trimmed := strings.TrimPrefix(key, envPrefix)
	dotted := strings.ToLower(strings.ReplaceAll(trimmed, "_", "."))
	return dotted, value
}

// parserFor picks the koanf parser for path's extension.
func parserFor(path string) (koanf.Parser, error) {
	switch filepath.Ext(path) {
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("unrecognized config extension %q", filepath.Ext(path))
	}
}

// loadRaw loads one config file into a fresh koanf.Koanf, stripping JSONC
// comments first when the file is JSON (no jsonc-aware parser exists in
// the dependency set this module draws from).
func loadRaw(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".json" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		stripped := stripJSONComments(raw)
		if err := k.Load(rawBytesProvider{stripped}, parser); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		return k, nil
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return k, nil
}

// Load reads path and every file in its `extends` chain, merging
// child-over-parent, and returns the final Config, per spec.md §6.2.
func Load(path string) (*Config, error) {
	chain, err := resolveExtendsChain(path)
	if err != nil {
		return nil, err
	}

	merged := koanf.New(".")
	if err := merged.Load(confmap.Provider(defaultConfigMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}
	// chain is root-first (furthest ancestor first); koanf.Load overlays
	// later loads on top of earlier ones, so loading in that order gives
	// child-wins semantics for scalars automatically.
	for _, p := range chain {
		k, err := loadRaw(p)
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(k); err != nil {
			return nil, fmt.Errorf("merge config %s: %w", p, err)
		}
	}

	if err := merged.Load(env.ProviderWithValue(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	var cfg Config
	if err := merged.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := unionArrayFields(chain, &cfg); err != nil {
		return nil, err
	}
	if err := validateGlobs(cfg.Files); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveExtendsChain follows `extends` references starting at path,
// returning the chain root-first, and erroring on a cycle.
func resolveExtendsChain(path string) ([]string, error) {
	var chain []string
	seen := map[string]bool{}
	cur := path
	for {
		abs, err := filepath.Abs(cur)
		if err != nil {
			return nil, fmt.Errorf("resolve extends chain: %w", err)
		}
		if seen[abs] {
			return nil, fmt.Errorf("circular extends chain at %s", abs)
		}
		seen[abs] = true
		chain = append([]string{abs}, chain...)

		k, err := loadRaw(abs)
		if err != nil {
			return nil, err
		}
		ext := k.String("extends")
		if ext == "" {
			break
		}
		cur = filepath.Join(filepath.Dir(abs), ext)
	}
	return chain, nil
}

// unionArrayFields re-implements the array-union-preserving-first-seen
// merge semantics spec.md §6.2 requires for include/exclude/
// ruleDirectories/ignoreFiles, since koanf.Merge's default array behavior
// is last-wins replacement rather than union.
func unionArrayFields(chain []string, cfg *Config) error {
	include := newOrderedSet()
	exclude := newOrderedSet()
	ruleDirs := newOrderedSet()
	ignoreFiles := newOrderedSet()

	for _, p := range chain {
		k, err := loadRaw(p)
		if err != nil {
			return err
		}
		include.addAll(k.Strings("files.include"))
		exclude.addAll(k.Strings("files.exclude"))
		ruleDirs.addAll(k.Strings("linter.ruleDirectories"))
		ignoreFiles.addAll(k.Strings("files.ignoreFiles"))
	}
	// Only override what the chain actually set; an empty union here means
	// no config file in the chain mentioned the field, so the value already
	// unmarshaled from defaultConfigMap (or left zero) should stand.
	if len(include.values()) > 0 {
		cfg.Files.Include = include.values()
	}
	if len(exclude.values()) > 0 {
		cfg.Files.Exclude = exclude.values()
	}
	if len(ruleDirs.values()) > 0 {
		cfg.Linter.RuleDirectories = ruleDirs.values()
	}
	if len(ignoreFiles.values()) > 0 {
		cfg.Files.IgnoreFiles = ignoreFiles.values()
	}
	return nil
}

func validateGlobs(f FilesConfig) error {
	for _, g := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("invalid glob pattern %q", g)
		}
	}
	return nil
}
