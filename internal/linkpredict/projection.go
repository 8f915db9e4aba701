package linkpredict

import "strings"

// nodeProjection renders the node selection: "*" or a label list.
func nodeProjection(labels []string) any {
	clean := cleanSelection(labels)
	if len(clean) == 0 {
		return "*"
	}
	out := make([]any, 0, len(clean))
	for _, l := range clean {
		out = append(out, l)
	}
	return out
}

// relationshipProjection renders every selected type as UNDIRECTED, which link
// prediction requires.
func relationshipProjection(types []string) map[string]any {
	clean := cleanSelection(types)
	if len(clean) == 0 {
		return map[string]any{
			"ALL": map[string]any{"type": "*", "orientation": "UNDIRECTED"},
		}
	}
	out := make(map[string]any, len(clean))
	for _, t := range clean {
		out[t] = map[string]any{"type": t, "orientation": "UNDIRECTED"}
	}
	return out
}

// cleanSelection trims entries; a "*" anywhere means unrestricted (nil).
func cleanSelection(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s == "*" {
			return nil
		}
		out = append(out, s)
	}
	return out
}
