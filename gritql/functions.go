package gritql

import (
	"regexp"
	"strings"
	"sync"
)

// predicateFunc implements one member of the closed function registry
// described in spec.md §4.8.2. Functions used as predicates return a bool;
// string-transforming functions are wrapped by transformFuncs below.
type predicateFunc func(args ...string) bool

var predicateRegistry = map[string]predicateFunc{
	"is_pascal_case": func(args ...string) bool { return len(args) == 1 && isPascalCase(args[0]) },
	"is_kebab_case":  func(args ...string) bool { return len(args) == 1 && isKebabCase(args[0]) },
}

func lookupPredicate(name string) (predicateFunc, bool) {
	fn, ok := predicateRegistry[name]
	return fn, ok
}

// transformFunc implements a string-transforming registry member, reached
// by name through LookupTransform; RenderTemplate does not call it.
type transformFunc func(args ...string) string

var transformRegistry = map[string]transformFunc{
	"capitalize":     func(a ...string) string { return capitalize(arg(a, 0)) },
	"to_pascal_case": func(a ...string) string { return toPascalCase(arg(a, 0)) },
	"to_kebab_case":  func(a ...string) string { return toKebabCase(arg(a, 0)) },
	"to_snake_case":  func(a ...string) string { return toSnakeCase(arg(a, 0)) },
	"lowercase":      func(a ...string) string { return strings.ToLower(arg(a, 0)) },
	"uppercase":      func(a ...string) string { return strings.ToUpper(arg(a, 0)) },
	"trim":           func(a ...string) string { return strings.TrimSpace(arg(a, 0)) },
	"replace":        func(a ...string) string { return strings.ReplaceAll(arg(a, 0), arg(a, 1), arg(a, 2)) },
	"concat":         func(a ...string) string { return strings.Join(a, "") },
}

// LookupTransform resolves a transform function by name for use in rewrite
// templates; ok is false for unknown names ("Unknown function" per spec.md
// §4.8.2).
func LookupTransform(name string) (transformFunc, bool) {
	fn, ok := transformRegistry[name]
	return fn, ok
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func splitWords(s string) []string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	var words []string
	var cur strings.Builder
	for i, r := range s {
		if r == ' ' {
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
			continue
		}
		if i > 0 && cur.Len() > 0 {
			prev := rune(cur.String()[cur.Len()-1])
			if isUpper(r) && !isUpper(prev) {
				words = append(words, cur.String())
				cur.Reset()
			}
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func toPascalCase(s string) string {
	var sb strings.Builder
	for _, w := range splitWords(s) {
		sb.WriteString(capitalize(strings.ToLower(w)))
	}
	return sb.String()
}

func toKebabCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

func toSnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

func isPascalCase(s string) bool {
	if s == "" || !isUpper(rune(s[0])) {
		return false
	}
	return !strings.ContainsAny(s, "-_ ")
}

func isKebabCase(s string) bool {
	if s == "" || s != strings.ToLower(s) {
		return false
	}
	return !strings.ContainsAny(s, "_ ")
}

var (
	regexCacheMu sync.Mutex
	regexCache   = map[string]*regexp.Regexp{}
)

// compileRegex caches compiled patterns since the same GritQL rule is
// executed once per file in the worker pool.
func compileRegex(pattern string) (*regexp.Regexp, error) {
	regexCacheMu.Lock()
	defer regexCacheMu.Unlock()
	if re, ok := regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache[pattern] = re
	return re, nil
}
