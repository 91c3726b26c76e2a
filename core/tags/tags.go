// Package tags is the catalog of OpenITI mARkdown markers.
//
// Markers that are textual prefixes of one another are kept in ordered
// groups, longest or most specific first, so that a scan over a group
// never lets "### |" shadow "### ||" or "### $" shadow "### $$".
package tags

// Document-level markers.
const (
	MagicValue = "######OpenITI#"
	Meta       = "#META#"
	MetaEnd    = "#META#Header#End#"
	MetaSep    = "::"
)

// Line-level markers.
const (
	Page        = "PageV"
	Riwayat     = "# $RWY$"
	Paragraph   = "#"
	Line        = "~~"
	MorphPrefix = "#~:"
	Editorial   = "### |EDITOR|"
	Appendix    = "### |APPENDIX|"
	Paratext    = "### |PARATEXT|"

	Header1 = "### |"
	Header2 = "### ||"
	Header3 = "### |||"
	Header4 = "### ||||"
	Header5 = "### |||||"

	DicNis = "### $DIC_NIS$"
	DicTop = "### $DIC_TOP$"
	DicLex = "### $DIC_LEX$"
	DicBib = "### $DIC_BIB$"

	DoxPos = "### $DOX_POS$"
	DoxSec = "### $DOX_SEC$"

	BioMan         = "### $"
	BioManFull     = "### $BIO_MAN$"
	BioWom         = "### $$"
	BioWomFull     = "### $BIO_WOM$"
	BioRef         = "### $$$"
	BioRefFull     = "### $BIO_REF$"
	ListNames      = "### $$$$"
	ListNamesFull  = "### $BIO_NLI$"
	Event          = "### @"
	EventFull      = "### $CHR_EVE$"
	ListEvents     = "### @ RAW"
	ListEventsFull = "### $CHR_RAW$"

	Province   = "#$#PROV"
	GeoType    = "#$#TYPE"
	Region     = "#$#REG"
	Settlement = "#$#STTL"
)

// Phrase-level markers.
const (
	Hemistich  = "%~%"
	Milestone  = "Milestone300"
	Matn       = "@MATN@"
	Hukm       = "@HUKM@"
	RouteFrom  = "#$#FROM"
	RouteTowa  = "#$#TOWA"
	RouteDist  = "#$#DIST"
	YearBirth  = "@YB"
	YearDeath  = "@YD"
	YearOther  = "@YY"
	YearAge    = "@YA"
	Topic      = "@T"
	TopicFull  = "@TOP"
	Person     = "@P"
	PersonFull = "@PER"
	Society    = "@S"
	SocFull    = "@SOC"
	Source     = "@SRC"
)

// EntityClass groups the named-entity markers by the part they produce.
type EntityClass string

// Entity classes.
const (
	ClassBirth   EntityClass = "birth"
	ClassDeath   EntityClass = "death"
	ClassYear    EntityClass = "other"
	ClassAge     EntityClass = "age"
	ClassTopic   EntityClass = "topic"
	ClassPerson  EntityClass = "person"
	ClassSociety EntityClass = "society"
	ClassSource  EntityClass = "source"
)

// EntityMarker binds a named-entity marker to its class.
type EntityMarker struct {
	Marker string
	Class  EntityClass
}

// HeaderMarker binds a header marker to its level.
type HeaderMarker struct {
	Marker string
	Level  int
}

// SubtypeMarker binds a structural marker to the subtype it selects.
type SubtypeMarker struct {
	Marker  string
	Subtype string
}

// Headers is ordered longest marker first.
var Headers = []HeaderMarker{
	{Header5, 5},
	{Header4, 4},
	{Header3, 3},
	{Header2, 2},
	{Header1, 1},
}

// Dictionaries holds the dictionary-unit markers.
var Dictionaries = []SubtypeMarker{
	{DicNis, "nis"},
	{DicTop, "top"},
	{DicLex, "lex"},
	{DicBib, "bib"},
}

// Doxographical holds the doxographical-item markers.
var Doxographical = []SubtypeMarker{
	{DoxPos, "pos"},
	{DoxSec, "sec"},
}

// BiosEvents is ordered so that no marker is tried after one of its
// textual prefixes: spelled-out forms first, then names > ref > wom > man,
// then the event list before the single event.
var BiosEvents = []SubtypeMarker{
	{ListNamesFull, "names"},
	{BioRefFull, "ref"},
	{BioWomFull, "wom"},
	{BioManFull, "man"},
	{ListEventsFull, "events"},
	{EventFull, "event"},
	{ListNames, "names"},
	{BioRef, "ref"},
	{BioWom, "wom"},
	{BioMan, "man"},
	{ListEvents, "events"},
	{Event, "event"},
}

// NamedEntities is ordered full spelling before abbreviation so that
// "@TOP" is never read as "@T" followed by "OP".
var NamedEntities = []EntityMarker{
	{YearBirth, ClassBirth},
	{YearDeath, ClassDeath},
	{YearOther, ClassYear},
	{YearAge, ClassAge},
	{TopicFull, ClassTopic},
	{Topic, ClassTopic},
	{PersonFull, ClassPerson},
	{Person, ClassPerson},
	{SocFull, ClassSociety},
	{Source, ClassSource},
	{Society, ClassSociety},
}

// Literals are the fixed phrase-level markers that carry no payload.
var Literals = []string{
	Hemistich,
	Matn,
	Hukm,
	RouteFrom,
	RouteTowa,
	RouteDist,
}

// EntityClassOf returns the class of a named-entity marker.
func EntityClassOf(marker string) (EntityClass, bool) {
	for _, ne := range NamedEntities {
		if ne.Marker == marker {
			return ne.Class, true
		}
	}
	return "", false
}
