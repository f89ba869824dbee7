package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/termfx/fshlint/ast"
	"github.com/termfx/fshlint/cst"
	"github.com/termfx/fshlint/diagnostic"
)

// InstanceUsage classifies where an exported Instance is emitted, per
// spec.md §4.6.3.
type InstanceUsage string

const (
	UsageExample    InstanceUsage = "example"
	UsageDefinition InstanceUsage = "definition"
	UsageInline     InstanceUsage = "inline"
)

// ExportInstance builds an arbitrary JSON resource of the Instance's
// declared InstanceOf type, navigating assignment rules against the
// instance tree with `[n]`/`[+]` array indexing/growth, per spec.md
// §4.6.3.
func ExportInstance(file string, e ast.Entity) (*Resource, InstanceUsage, []diagnostic.Diagnostic) {
	name, _ := e.Name()
	instOf, _ := e.InstanceOf()

	usage := UsageExample
	if u, ok := e.Usage(); ok {
		switch strings.TrimPrefix(strings.TrimSpace(u), "#") {
		case "definition":
			usage = UsageDefinition
		case "inline":
			usage = UsageInline
		}
	}

	res := NewResource().
		Set("resourceType", instOf).
		Set("id", idOrName(e, name))

	var diags []diagnostic.Diagnostic
	arrayCounters := map[string]int{}

	for _, rule := range e.Rules() {
		path, hasPath := rule.Path()
		if !hasPath {
			continue
		}
		if rule.Kind() != cst.NodeFixedValueRule {
			continue
		}
		fv, ok := ast.AsFixedValueRule(rule.Body())
		if !ok {
			continue
		}
		if err := assignPath(res, path, parseValueLiteral(fv.Value()), arrayCounters); err != nil {
			diags = append(diags, diagnostic.New("export/instance-path-error", diagnostic.SeverityError,
				err.Error(), diagnostic.Location{File: file}))
		}
	}

	return res, usage, diags
}

// assignPath navigates dotted path segments (with optional `[n]`/`[+]`
// array indices) into res, creating intermediate Resources/arrays as
// needed and setting the final segment to value, per spec.md §4.6.3's
// "path segments with [n] or [+] index/grow arrays".
func assignPath(res *Resource, path string, value any, counters map[string]int) error {
	segments := strings.Split(path, ".")
	cur := res
	for i, seg := range segments {
		fieldName, index, grows, hasIndex := parseInstanceSegment(seg)
		last := i == len(segments)-1

		if !hasIndex {
			if last {
				cur.Set(fieldName, value)
				return nil
			}
			cur = cur.GetResource(fieldName)
			continue
		}

		arrVal, _ := cur.Get(fieldName)
		arr, _ := arrVal.([]any)

		if grows {
			counterKey := fieldName
			index = counters[counterKey]
			counters[counterKey] = index + 1
		}
		for len(arr) <= index {
			arr = append(arr, NewResource())
		}
		cur.Set(fieldName, arr)

		if last {
			arr[index] = value
			return nil
		}
		sub, ok := arr[index].(*Resource)
		if !ok {
			sub = NewResource()
			arr[index] = sub
		}
		cur = sub
	}
	return fmt.Errorf("assignPath: empty path")
}

// parseInstanceSegment splits "field[3]", "field[+]", or bare "field"
// into its components.
func parseInstanceSegment(seg string) (field string, index int, grows bool, hasIndex bool) {
	lb := strings.IndexByte(seg, '[')
	if lb < 0 {
		return seg, 0, false, false
	}
	field = seg[:lb]
	inner := strings.TrimSuffix(seg[lb+1:], "]")
	if inner == "+" {
		return field, 0, true, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return field, 0, false, false
	}
	return field, n, false, true
}
