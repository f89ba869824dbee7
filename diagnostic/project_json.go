package diagnostic

import "encoding/json"

// ToJSON renders diagnostics as pretty-printed JSON, per spec.md §6.3.
func ToJSON(diags []Diagnostic) ([]byte, error) {
	return json.MarshalIndent(diags, "", "  ")
}
