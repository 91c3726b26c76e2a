package tags

import (
	"regexp"
	"strings"
)

// space matches the same runes as unicode.IsSpace.
const space = `[\s\v\x{85}\p{Z}]`

const (
	pageExpr      = `PageV(?P<page_vol>\d+)P(?P<page_no>\d+[ab]?)`
	milestoneExpr = `Milestone300|\bms\d+`
	autoExpr      = `@(?P<auto_resp>[A-Z]{3})@(?P<auto_type>[A-Z]{3})@(?P<auto_cat>[A-Z]{3})@(?:-@(?P<auto_review>[0-9A-Za-z]{2})@)?`
	userExpr      = `@(?P<user_name>[^@\s]+)@(?P<user_type>[^@_\s]+)_(?P<user_sub>[^@_\s]+)(?:_(?P<user_subsub>[^@_\s]+))?@`
	entityNames   = `@YB|@YD|@YY|@YA|@TOP|@T|@PER|@P|@SOC|@SRC|@S`
)

// Line-level patterns, compiled once.
var (
	PagePattern      = regexp.MustCompile(`^` + pageExpr)
	RoutePattern     = regexp.MustCompile(`^#\$#FROM.+?#\$#TOWA.+?#\$#DIST.+$`)
	MorphPattern     = regexp.MustCompile(`^#~:([^:]+):`)
	ParagraphPattern = regexp.MustCompile(`^#(?:[^#$~]|$)`)
	HeaderPattern    = regexp.MustCompile(`^### (\|{1,5})(?:[^|]|$)`)
	DicPattern       = regexp.MustCompile(`^### \$DIC_(?:NIS|TOP|LEX|BIB)\$`)
	DoxPattern       = regexp.MustCompile(`^### \$DOX_(?:POS|SEC)\$`)
	// The bare man marker must not be followed by another "$" or by an
	// uppercase code letter, otherwise it would shadow the other variants.
	BioPattern    = regexp.MustCompile(`^### (?:\$BIO_(?:MAN|WOM|REF|NLI)\$|\$CHR_(?:EVE|RAW)\$|\${2,4}|\$(?:[^$A-Z]|$)|@)`)
	RegionPattern = regexp.MustCompile(`^#\$#PROV.+?#\$#TYPE.+?#\$#(?:REG|STTL)\w*(.+)$`)
	regionMarkers = regexp.MustCompile(`#\$#(?:PROV|TYPE|REG|STTL)\w*`)
)

// Phrase-level patterns, compiled once.
var (
	// phrasePattern alternatives are tried in priority order at each
	// position: page, milestone, automatic tag, custom tag, literals,
	// then named entities.
	phrasePattern = regexp.MustCompile(strings.Join([]string{
		`(?P<page>` + pageExpr + `)`,
		`(?P<milestone>` + milestoneExpr + `)`,
		`(?P<auto>` + autoExpr + `)`,
		`(?P<user>` + userExpr + `)`,
		`(?P<literal>` + literalExpr() + `)`,
		`(?P<entity>(?P<ne_marker>` + entityNames + `)(?P<ne_prefix>\d)(?P<ne_extent>\d))`,
	}, "|"))

	// stripPattern removes the same tags as phrasePattern. An entity with a
	// non-zero extent also takes the whitespace before its captured words.
	stripPattern = regexp.MustCompile(strings.Join([]string{
		pageExpr,
		milestoneExpr,
		autoExpr,
		userExpr,
		literalExpr(),
		`(?:` + entityNames + `)\d[1-9]` + space + `*`,
		`(?:` + entityNames + `)\d0`,
	}, "|"))

	groupIndex = map[string]int{}
)

func init() {
	for i, name := range phrasePattern.SubexpNames() {
		if name != "" {
			groupIndex[name] = i
		}
	}
}

func literalExpr() string {
	quoted := make([]string, len(Literals))
	for i, lit := range Literals {
		quoted[i] = regexp.QuoteMeta(lit)
	}
	return strings.Join(quoted, "|")
}

// TokenKind identifies the alternative of the phrase pattern that matched.
type TokenKind int

// Token kinds in phrase-pattern priority order.
const (
	TokenPage TokenKind = iota
	TokenMilestone
	TokenOpenAuto
	TokenOpenUser
	TokenLiteral
	TokenEntity
)

var tokenGroups = []struct {
	kind   TokenKind
	group  string
	fields []string
}{
	{TokenPage, "page", []string{"page_vol", "page_no"}},
	{TokenMilestone, "milestone", nil},
	{TokenOpenAuto, "auto", []string{"auto_resp", "auto_type", "auto_cat", "auto_review"}},
	{TokenOpenUser, "user", []string{"user_name", "user_type", "user_sub", "user_subsub"}},
	{TokenLiteral, "literal", nil},
	{TokenEntity, "entity", []string{"ne_marker", "ne_prefix", "ne_extent"}},
}

// Match is one phrase-level tag occurrence in a line.
type Match struct {
	Kind   TokenKind
	Start  int
	End    int
	Text   string
	Fields []string // kind-specific captures, in pattern order
}

// FindPhraseTags returns every phrase-level tag in s, left to right.
func FindPhraseTags(s string) []Match {
	locs := phrasePattern.FindAllStringSubmatchIndex(s, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		for _, tg := range tokenGroups {
			gi := groupIndex[tg.group]
			if loc[2*gi] < 0 {
				continue
			}
			m := Match{
				Kind:  tg.kind,
				Start: loc[0],
				End:   loc[1],
				Text:  s[loc[0]:loc[1]],
			}
			for _, f := range tg.fields {
				fi := groupIndex[f]
				if loc[2*fi] >= 0 {
					m.Fields = append(m.Fields, s[loc[2*fi]:loc[2*fi+1]])
				} else {
					m.Fields = append(m.Fields, "")
				}
			}
			matches = append(matches, m)
			break
		}
	}
	return matches
}

// Strip removes every phrase-level tag from s.
func Strip(s string) string {
	return stripPattern.ReplaceAllLiteralString(s, "")
}

// HasHemistich reports whether s carries a hemistich marker.
func HasHemistich(s string) bool {
	return strings.Contains(s, Hemistich)
}

// StripRegionMarkers removes the administrative-region markers and
// collapses the remaining whitespace.
func StripRegionMarkers(s string) string {
	return strings.Join(strings.Fields(regionMarkers.ReplaceAllLiteralString(s, " ")), " ")
}

// StripAll removes every header marker, longest first, and then every
// phrase-level tag.
func StripAll(s string) string {
	for _, h := range Headers {
		s = strings.ReplaceAll(s, h.Marker, "")
	}
	return Strip(s)
}

// StripMarkers removes every occurrence of the markers of an ordered group.
func StripMarkers(s string, group []SubtypeMarker) string {
	for _, sm := range group {
		s = strings.ReplaceAll(s, sm.Marker, "")
	}
	return s
}
