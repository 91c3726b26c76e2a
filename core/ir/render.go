package ir

import "strings"

// Flatten renders a document as plain prose: one line per content node
// that has text, optionally preceded by the metadata header.
func Flatten(d *Document, withMeta bool) string {
	var sb strings.Builder
	if withMeta {
		for _, f := range d.Metadata {
			sb.WriteString(strings.TrimSpace(f.Key))
			if f.Value != "" {
				sb.WriteString(": ")
				sb.WriteString(f.Value)
			}
			sb.WriteString("\n")
		}
		if len(d.Metadata) > 0 {
			sb.WriteString("\n")
		}
	}
	for _, c := range d.Content {
		s := c.String()
		if s == "" {
			continue
		}
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}
