package doctree

import "strings"

// CollectText concatenates the text of every Text node at or below e, in
// walk order, with nothing inserted between fragments.
func CollectText(e Element) string {
	var sb strings.Builder
	Walk(e, func(el Element, _ int) {
		if t, ok := el.(*Text); ok {
			sb.WriteString(t.Text)
		}
	})
	return sb.String()
}
