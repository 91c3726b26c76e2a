package ir

import "strings"

// Summary counts the nodes of a document by kind.
type Summary struct {
	Metadata int                 `json:"metadata"`
	Content  int                 `json:"content"`
	Kinds    map[ContentKind]int `json:"kinds"`
	Parts    map[PartKind]int    `json:"parts"`
	Volumes  []string            `json:"volumes,omitempty"`
	Words    int                 `json:"words"`
}

// Summarize walks the document once and counts content and part kinds.
func Summarize(d *Document) Summary {
	s := Summary{
		Metadata: len(d.Metadata),
		Content:  len(d.Content),
		Kinds:    make(map[ContentKind]int),
		Parts:    make(map[PartKind]int),
	}
	seen := make(map[string]bool)
	addVolume := func(p *PageNumber) {
		if !seen[p.Volume] {
			seen[p.Volume] = true
			s.Volumes = append(s.Volumes, p.Volume)
		}
	}

	for _, c := range d.Content {
		s.Kinds[c.Kind()]++
		var parts []Part
		switch n := c.(type) {
		case *PageNumber:
			addVolume(n)
		case *Line:
			parts = n.Parts
			s.Words += countWords(n.Text)
		case *Verse:
			parts = n.Parts
			s.Words += countWords(n.Text)
		}
		for _, p := range parts {
			s.Parts[p.PartKind()]++
			if pn, ok := p.(*PageNumber); ok {
				addVolume(pn)
			}
		}
	}
	return s
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
