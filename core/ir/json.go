package ir

import "encoding/json"

// json.go - tagged JSON encoding for the Content and Part unions.

// jsonMarshal is a variable to allow testing of marshal errors.
var jsonMarshal = json.Marshal

type envelope struct {
	Type string `json:"type"`
	Node any    `json:"node"`
}

// MarshalJSON encodes the document with every content node wrapped as
// {"type": kind, "node": value}.
func (d *Document) MarshalJSON() ([]byte, error) {
	content := make([]envelope, len(d.Content))
	for i, c := range d.Content {
		content[i] = envelope{Type: string(c.Kind()), Node: c}
	}
	return jsonMarshal(struct {
		MagicValue string      `json:"magic_value"`
		Metadata   []MetaField `json:"metadata,omitempty"`
		Content    []envelope  `json:"content"`
	}{
		MagicValue: d.MagicValue,
		Metadata:   d.Metadata,
		Content:    content,
	})
}

// MarshalJSON encodes the line with every part wrapped as
// {"type": kind, "node": value}.
func (l *Line) MarshalJSON() ([]byte, error) {
	parts := make([]envelope, len(l.Parts))
	for i, p := range l.Parts {
		parts[i] = envelope{Type: string(p.PartKind()), Node: p}
	}
	return jsonMarshal(struct {
		Orig  string     `json:"orig"`
		Text  string     `json:"text"`
		Parts []envelope `json:"parts"`
	}{
		Orig:  l.Orig,
		Text:  l.Text,
		Parts: parts,
	})
}
