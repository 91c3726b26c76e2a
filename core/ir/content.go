package ir

import "fmt"

// Content is a node of the document's content sequence.
//
// The set of implementations is closed; it is sealed by an unexported
// method so that type switches over Content stay exhaustive.
type Content interface {
	Kind() ContentKind
	// String renders the node as prose.
	String() string
	isContent()
}

// PageNumber is a volume/page boundary. It is both a content node (a
// stand-alone page line) and a phrase part (a page marker inside running
// text).
type PageNumber struct {
	Orig   string `json:"orig"`
	Volume string `json:"volume"`
	Page   string `json:"page"`
}

func (p *PageNumber) Kind() ContentKind { return KindPageNumber }
func (p *PageNumber) String() string    { return fmt.Sprintf("Vol. %s, p. %s", p.Volume, p.Page) }
func (*PageNumber) isContent()          {}

// Paragraph marks the start of a paragraph; its text follows as a Line.
type Paragraph struct {
	Orig string `json:"orig"`
}

func (p *Paragraph) Kind() ContentKind { return KindParagraph }
func (p *Paragraph) String() string    { return "" }
func (*Paragraph) isContent()          {}

// SectionHeader is a header with its tag-free text.
type SectionHeader struct {
	Orig  string `json:"orig"`
	Value string `json:"value"`
	Level int    `json:"level"`
}

func (h *SectionHeader) Kind() ContentKind { return KindSectionHeader }
func (h *SectionHeader) String() string    { return h.Value }
func (*SectionHeader) isContent()          {}

// Editorial marks an editorial section.
type Editorial struct {
	Orig string `json:"orig"`
}

func (e *Editorial) Kind() ContentKind { return KindEditorial }
func (e *Editorial) String() string    { return "" }
func (*Editorial) isContent()          {}

// Appendix marks an appendix section.
type Appendix struct {
	Orig string `json:"orig"`
}

func (a *Appendix) Kind() ContentKind { return KindAppendix }
func (a *Appendix) String() string    { return "" }
func (*Appendix) isContent()          {}

// Paratext marks a paratext section.
type Paratext struct {
	Orig string `json:"orig"`
}

func (p *Paratext) Kind() ContentKind { return KindParatext }
func (p *Paratext) String() string    { return "" }
func (*Paratext) isContent()          {}

// DictionaryUnit starts a dictionary entry.
type DictionaryUnit struct {
	Orig string         `json:"orig"`
	Type DictionaryType `json:"type"`
}

func (d *DictionaryUnit) Kind() ContentKind { return KindDictionaryUnit }
func (d *DictionaryUnit) String() string    { return "" }
func (*DictionaryUnit) isContent()          {}

// BioOrEvent starts a biography, a list of names or a chronicle event.
type BioOrEvent struct {
	Orig string  `json:"orig"`
	Type BioType `json:"type"`
}

func (b *BioOrEvent) Kind() ContentKind { return KindBioOrEvent }
func (b *BioOrEvent) String() string    { return "" }
func (*BioOrEvent) isContent()          {}

// DoxographicalItem starts a doxographical entry.
type DoxographicalItem struct {
	Orig string  `json:"orig"`
	Type DoxType `json:"type"`
}

func (d *DoxographicalItem) Kind() ContentKind { return KindDoxographicalItem }
func (d *DoxographicalItem) String() string    { return "" }
func (*DoxographicalItem) isContent()          {}

// MorphologicalPattern records a morphological-pattern category.
type MorphologicalPattern struct {
	Orig     string `json:"orig"`
	Category string `json:"category"`
}

func (m *MorphologicalPattern) Kind() ContentKind { return KindMorphologicalPattern }
func (m *MorphologicalPattern) String() string    { return m.Category }
func (*MorphologicalPattern) isContent()          {}

// AdministrativeRegion is a province/region description. Its structure is
// not decomposed; Text is the description with the region markers removed.
type AdministrativeRegion struct {
	Orig string `json:"orig"`
	Text string `json:"text"`
}

func (a *AdministrativeRegion) Kind() ContentKind { return KindAdministrativeRegion }
func (a *AdministrativeRegion) String() string    { return a.Text }
func (*AdministrativeRegion) isContent()          {}

// RiwayatUnit starts a riwāyaŧ; its text follows as a Line opening with an
// Isnad part.
type RiwayatUnit struct {
	Orig string `json:"orig"`
}

func (r *RiwayatUnit) Kind() ContentKind { return KindRiwayatUnit }
func (r *RiwayatUnit) String() string    { return "" }
func (*RiwayatUnit) isContent()          {}

// Line is a line of running text.
type Line struct {
	// Orig is the raw input line, tags included.
	Orig string `json:"orig"`
	// Text is the clean text: the tagged text with every phrase-level tag removed.
	Text  string `json:"text"`
	Parts []Part `json:"parts"`
}

func (l *Line) Kind() ContentKind { return KindLine }
func (l *Line) String() string    { return l.Text }
func (*Line) isContent()          {}

// Verse is a line of poetry, split into hemistichs by Hemistich parts.
type Verse struct {
	Line
}

func (v *Verse) Kind() ContentKind { return KindVerse }

// Hemistichs returns the text of each half-line.
func (v *Verse) Hemistichs() []string {
	var out []string
	var cur string
	for _, p := range v.Parts {
		if p.PartKind() == PartHemistich {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += p.Text()
	}
	return append(out, cur)
}
