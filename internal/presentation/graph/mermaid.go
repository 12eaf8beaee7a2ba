// Package graph renders the state dependency graph for visualization tools.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Values maps state names to their current representation.
	Values map[string]domain.Repr
	// Updated names the states that recomputed during the last tick.
	Updated []string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from the
// registered state types. It applies semantic styling:
// - Root states (no dependencies): ((Circle))
// - Substates and computed states: [Rectangle]
// Edges point from dependency to dependent.
// It also applies overlay styles (current values, updated states) if provided.
func GenerateMermaid(states []*domain.StateType, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, st := range states {
		safeID := sanitizeMermaidID(st.Name())

		opener, closer := "[", "]"
		if len(st.Dependencies()) == 0 {
			opener, closer = "((", "))" // Circle
		}

		label := st.Name()
		if overlay != nil {
			if val, ok := overlay.Values[st.Name()]; ok {
				value := "absent"
				if val.Present {
					value = escapeMermaidLabel(val.String())
				}
				label = fmt.Sprintf("%s <br/> %s", st.Name(), value)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, dep := range st.Dependencies() {
			safeDep := sanitizeMermaidID(dep.Name())
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeDep, safeID))
		}
	}

	if overlay != nil && len(overlay.Updated) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme.
		sb.WriteString("    classDef updated fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Updated {
			safeID := sanitizeMermaidID(name)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s updated;\n", safeID))
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
