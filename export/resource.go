// Package export implements the FSH-to-FHIR-JSON exporter described in
// spec.md §4.6: a two-phase pipeline (rule-set collection + insert
// expansion, then per-entity typed export) that dispatches on entity kind
// to build a StructureDefinition/ValueSet/CodeSystem/instance resource as
// an order-preserving JSON document.
package export

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Resource is an order-preserving JSON object, used throughout the
// exporter so emitted FHIR resources keep a stable, human-reviewable key
// order (StructureDefinition's `resourceType`, `id`, `url` first, then
// metadata, then `differential`) instead of Go map's randomized order.
type Resource struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewResource creates an empty ordered resource.
func NewResource() *Resource {
	return &Resource{om: orderedmap.New[string, any]()}
}

// Set assigns key=value, appending key at the end if new, matching the
// teacher corpus's preference for insertion-ordered JSON over map[string]any.
func (r *Resource) Set(key string, value any) *Resource {
	r.om.Set(key, value)
	return r
}

// Get returns the value stored under key, if any.
func (r *Resource) Get(key string) (any, bool) {
	return r.om.Get(key)
}

// GetResource returns the value under key as a *Resource, creating and
// storing one if absent or of the wrong type.
func (r *Resource) GetResource(key string) *Resource {
	if v, ok := r.om.Get(key); ok {
		if sub, ok := v.(*Resource); ok {
			return sub
		}
	}
	sub := NewResource()
	r.om.Set(key, sub)
	return sub
}

// AppendToArray appends value to the []any stored under key, creating the
// array if absent.
func (r *Resource) AppendToArray(key string, value any) {
	existing, ok := r.om.Get(key)
	var arr []any
	if ok {
		arr, _ = existing.([]any)
	}
	arr = append(arr, value)
	r.om.Set(key, arr)
}

// MarshalJSON implements json.Marshaler by delegating to the embedded
// ordered map, preserving insertion order in the rendered JSON.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.om)
}

// Len reports the number of top-level keys set on r.
func (r *Resource) Len() int { return r.om.Len() }
