package semantic

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/termfx/fshlint/session"
)

// pathCacheKey identifies one (type, path) resolution for PathResolver's
// cache, per spec.md §4.4's "(type,path) -> ElementDefinition cache"
// requirement.
type pathCacheKey struct {
	baseType string
	path     string
}

// PathResolver walks a dotted FSH path (simple, nested, choice-type, or
// sliced) against a session.DefinitionSession's StructureDefinition
// snapshot, matching SUSHI's path-resolution behavior as observed in
// original_source's PathResolver.
type PathResolver struct {
	sess  session.DefinitionSession
	mu    sync.Mutex
	cache map[pathCacheKey]*session.ElementDefinition
}

func NewPathResolver(sess session.DefinitionSession) *PathResolver {
	return &PathResolver{sess: sess, cache: make(map[pathCacheKey]*session.ElementDefinition)}
}

// CacheStats returns (entries, capacity-unused) for test assertions,
// mirroring original_source's cache_stats() diagnostic hook. Capacity is
// always 0: this cache is unbounded, unlike an LRU.
func (r *PathResolver) CacheStats() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache), 0
}

// ResolvePath resolves a dotted path (e.g. "contact.telecom.system",
// "deceased[x]", "category[slicename]") rooted at baseType, returning the
// matching ElementDefinition.
func (r *PathResolver) ResolvePath(ctx context.Context, baseType, path string) (*session.ElementDefinition, error) {
	key := pathCacheKey{baseType: baseType, path: path}
	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	sd, err := r.sess.FishByID(ctx, baseType)
	if err != nil {
		sd, err = r.sess.FishByURL(ctx, baseType)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: base type %q not found: %w", path, baseType, err)
		}
	}

	segments := splitPath(path)
	current := sd
	currentPath := sd.Type
	var el *session.ElementDefinition
	for i, seg := range segments {
		name, bracket, hasBracket := parseSegment(seg)
		candidatePath := currentPath + "." + name
		found := findElement(current, candidatePath, name, bracket, hasBracket)
		if found == nil {
			return nil, fmt.Errorf("resolve path %q: no element matching %q under %q", path, seg, currentPath)
		}
		el = found
		if i == len(segments)-1 {
			break
		}
		// Need to unfold into the element's own type to continue walking.
		nextType, err := typeForContinuation(found)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", path, err)
		}
		next, err := r.sess.FishByID(ctx, nextType)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: type %q not found: %w", path, nextType, err)
		}
		current = next
		currentPath = next.Type
	}

	r.mu.Lock()
	r.cache[key] = el
	r.mu.Unlock()
	return el, nil
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// parseSegment splits a path segment like "category[slicename]" or
// "deceased[x]" into (name, bracket-content, hasBracket).
func parseSegment(seg string) (name string, bracket string, hasBracket bool) {
	if i := strings.IndexByte(seg, '['); i >= 0 && strings.HasSuffix(seg, "]") {
		return seg[:i], seg[i+1 : len(seg)-1], true
	}
	return seg, "", false
}

// findElement locates the ElementDefinition matching name (and, for choice
// types, the "[x]" suffix convention) within sd's snapshot.
func findElement(sd *session.StructureDefinition, candidatePath, name, bracket string, hasBracket bool) *session.ElementDefinition {
	if hasBracket && bracket == "x" {
		// Choice type: look for "<name>[x]" in the snapshot.
		choicePath := sd.Type + "." + name + "[x]"
		for i := range sd.Elements {
			if sd.Elements[i].Path == choicePath {
				e := sd.Elements[i]
				e.IsChoiceType = true
				return &e
			}
		}
	}
	for i := range sd.Elements {
		e := &sd.Elements[i]
		if e.Path == candidatePath {
			if hasBracket && e.SliceName != bracket {
				continue
			}
			return e
		}
		// A slice is represented as "<path>:<sliceName>" in some snapshot
		// encodings; tolerate both forms.
		if hasBracket && e.Path == candidatePath+":"+bracket {
			return e
		}
	}
	return nil
}

// typeForContinuation picks the type to unfold into when walking past el,
// preferring an explicit contentReference over the first declared type.
func typeForContinuation(el *session.ElementDefinition) (string, error) {
	if el.ContentRef != "" {
		ref := strings.TrimPrefix(el.ContentRef, "#")
		parts := strings.SplitN(ref, ".", 2)
		return parts[0], nil
	}
	if len(el.Types) == 0 {
		return "", fmt.Errorf("element %q has no declared type to unfold into", el.Path)
	}
	return el.Types[0], nil
}
