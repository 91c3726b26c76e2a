package ir

import "strings"

// types.go - Document, metadata and the kind enumerations used by the
// content and part unions.

// Document is a parsed OpenITI mARkdown text.
type Document struct {
	// OrigText is the complete input text.
	OrigText string `json:"-"`

	// MagicValue is the sentinel line as it appeared in the input.
	MagicValue string `json:"magic_value"`

	// Metadata holds the #META# header fields in source order.
	Metadata []MetaField `json:"metadata,omitempty"`

	// Content holds every emitted node in source line order.
	Content []Content `json:"content"`
}

// MetaField is one #META# header line.
type MetaField struct {
	// Key is the text between the metadata marker and the separator, verbatim.
	Key string `json:"key"`

	// Value is the text after the separator, trimmed.
	Value string `json:"value"`
}

// Meta returns the value of the first metadata field whose trimmed key
// equals key.
func (d *Document) Meta(key string) (string, bool) {
	for _, f := range d.Metadata {
		if strings.TrimSpace(f.Key) == key {
			return f.Value, true
		}
	}
	return "", false
}

// Lines returns the Line and Verse nodes of the document.
func (d *Document) Lines() []Content {
	var out []Content
	for _, c := range d.Content {
		switch c.(type) {
		case *Line, *Verse:
			out = append(out, c)
		}
	}
	return out
}

// ContentKind identifies a Content variant.
type ContentKind string

// Content kinds.
const (
	KindPageNumber           ContentKind = "page_number"
	KindParagraph            ContentKind = "paragraph"
	KindSectionHeader        ContentKind = "section_header"
	KindEditorial            ContentKind = "editorial"
	KindAppendix             ContentKind = "appendix"
	KindParatext             ContentKind = "paratext"
	KindDictionaryUnit       ContentKind = "dictionary_unit"
	KindBioOrEvent           ContentKind = "bio_or_event"
	KindDoxographicalItem    ContentKind = "doxographical_item"
	KindMorphologicalPattern ContentKind = "morphological_pattern"
	KindAdministrativeRegion ContentKind = "administrative_region"
	KindRiwayatUnit          ContentKind = "riwayat_unit"
	KindLine                 ContentKind = "line"
	KindVerse                ContentKind = "verse"
)

// ContentKinds lists every content kind.
var ContentKinds = []ContentKind{
	KindPageNumber,
	KindParagraph,
	KindSectionHeader,
	KindEditorial,
	KindAppendix,
	KindParatext,
	KindDictionaryUnit,
	KindBioOrEvent,
	KindDoxographicalItem,
	KindMorphologicalPattern,
	KindAdministrativeRegion,
	KindRiwayatUnit,
	KindLine,
	KindVerse,
}

// PartKind identifies a Part variant.
type PartKind string

// Part kinds.
const (
	PartText          PartKind = "text"
	PartPageNumber    PartKind = "page_number"
	PartMilestone     PartKind = "milestone"
	PartHemistich     PartKind = "hemistich"
	PartIsnad         PartKind = "isnad"
	PartMatn          PartKind = "matn"
	PartHukm          PartKind = "hukm"
	PartRouteFrom     PartKind = "route_from"
	PartRouteTowards  PartKind = "route_towards"
	PartRouteDistance PartKind = "route_distance"
	PartDate          PartKind = "date"
	PartAge           PartKind = "age"
	PartNamedEntity   PartKind = "named_entity"
	PartOpenTagUser   PartKind = "open_tag_user"
	PartOpenTagAuto   PartKind = "open_tag_auto"
)

// PartKinds lists every part kind.
var PartKinds = []PartKind{
	PartText,
	PartPageNumber,
	PartMilestone,
	PartHemistich,
	PartIsnad,
	PartMatn,
	PartHukm,
	PartRouteFrom,
	PartRouteTowards,
	PartRouteDistance,
	PartDate,
	PartAge,
	PartNamedEntity,
	PartOpenTagUser,
	PartOpenTagAuto,
}

// DictionaryType is the subtype of a dictionary unit.
type DictionaryType string

// Dictionary types.
const (
	DictionaryBib DictionaryType = "bib"
	DictionaryLex DictionaryType = "lex"
	DictionaryNis DictionaryType = "nis"
	DictionaryTop DictionaryType = "top"
)

// BioType is the subtype of a biography or event entry.
type BioType string

// Biography and event types.
const (
	BioMan    BioType = "man"
	BioWom    BioType = "wom"
	BioRef    BioType = "ref"
	BioNames  BioType = "names"
	BioEvent  BioType = "event"
	BioEvents BioType = "events"
)

// DoxType is the subtype of a doxographical item.
type DoxType string

// Doxographical types.
const (
	DoxPos DoxType = "pos"
	DoxSec DoxType = "sec"
)

// DateType is the kind of a date part.
type DateType string

// Date types.
const (
	DateBirth DateType = "birth"
	DateDeath DateType = "death"
	DateOther DateType = "other"
)

// EntityType is the kind of a named entity.
type EntityType string

// Entity types.
const (
	EntityTopic   EntityType = "topic"
	EntityPerson  EntityType = "person"
	EntitySociety EntityType = "society"
	EntitySource  EntityType = "source"
)
