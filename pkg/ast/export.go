package ast

// ToMap converts the subtree to nested maps for JSON and YAML output. Layout
// text is left out; synthetic nodes have no span.
func (n *Node) ToMap() map[string]any {
	if n == nil {
		return nil
	}

	result := map[string]any{"kind": string(n.kind)}

	addString(result, "grammar", n.grammar)
	addString(result, "field", n.field)
	addString(result, "name", n.name)
	addString(result, "keyword", n.keyword)

	if n.kind == KindLiteral {
		result["value"] = n.value
		addString(result, "raw", n.raw)
	}

	if !n.span.IsZero() {
		result["span"] = map[string]any{
			"start_line":   n.span.StartLine,
			"start_col":    n.span.StartCol,
			"start_offset": n.span.StartOffset,
			"end_line":     n.span.EndLine,
			"end_col":      n.span.EndCol,
			"end_offset":   n.span.EndOffset,
		}
	}

	if len(n.children) > 0 {
		children := make([]map[string]any, len(n.children))
		for idx, child := range n.children {
			children[idx] = child.ToMap()
		}

		result["children"] = children
	}

	return result
}

func addString(result map[string]any, key, value string) {
	if value != "" {
		result[key] = value
	}
}
