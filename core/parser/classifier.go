package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/OpenITI/oimdp/core/errors"
	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/tags"
)

// Rule names, in precedence order.
const (
	RuleMeta          = "metadata"
	RulePage          = "page"
	RuleRiwayat       = "riwayat"
	RuleRoute         = "route"
	RuleMorph         = "morphological_pattern"
	RuleParagraph     = "paragraph"
	RuleContinuation  = "continuation"
	RuleSectionMarker = "section_marker"
	RuleHeader        = "section_header"
	RuleDictionary    = "dictionary"
	RuleDoxographical = "doxographical"
	RuleBioEvent      = "bio_event"
	RuleRegion        = "administrative_region"
	RuleNone          = "unrecognized"
)

// Classification is the outcome of classifying one line.
type Classification struct {
	Rule  string
	Meta  *ir.MetaField
	Nodes []ir.Content
}

// matcher returns the submatches of a line, or nil when it does not apply.
type matcher func(line string) []string

type handler func(c *Classifier, raw string, lineNo int, m []string) (Classification, error)

type rule struct {
	name  string
	match matcher
	apply handler
}

// rules is evaluated top to bottom; the first matching rule wins.
var rules = []rule{
	{RuleMeta, prefix(tags.Meta), classifyMeta},
	{RulePage, prefix(tags.Page), classifyPage},
	{RuleRiwayat, prefix(tags.Riwayat), classifyRiwayat},
	{RuleRoute, tags.RoutePattern.FindStringSubmatch, classifyRoute},
	{RuleMorph, tags.MorphPattern.FindStringSubmatch, classifyMorph},
	{RuleParagraph, tags.ParagraphPattern.FindStringSubmatch, classifyParagraph},
	{RuleContinuation, prefix(tags.Line), classifyContinuation},
	{RuleSectionMarker, prefix(tags.Editorial, tags.Appendix, tags.Paratext), classifySectionMarker},
	{RuleHeader, tags.HeaderPattern.FindStringSubmatch, classifyHeader},
	{RuleDictionary, tags.DicPattern.FindStringSubmatch, classifyDictionary},
	{RuleDoxographical, tags.DoxPattern.FindStringSubmatch, classifyDoxographical},
	{RuleBioEvent, tags.BioPattern.FindStringSubmatch, classifyBioEvent},
	{RuleRegion, tags.RegionPattern.FindStringSubmatch, classifyRegion},
}

// RuleNames returns the rule names in precedence order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// prefix matches lines starting with any of markers, in order.
func prefix(markers ...string) matcher {
	return func(line string) []string {
		for _, m := range markers {
			if strings.HasPrefix(line, m) {
				return []string{m}
			}
		}
		return nil
	}
}

// Classifier decides the structural role of each input line.
type Classifier struct {
	tok *Tokenizer
	log *slog.Logger
}

// NewClassifier returns a classifier that reports debug events to log.
func NewClassifier(log *slog.Logger) *Classifier {
	if log == nil {
		log = discardLogger()
	}
	return &Classifier{tok: NewTokenizer(log), log: log}
}

// Classify applies the first matching rule to raw, the 1-based line lineNo.
// A line that matches no rule yields no nodes and no error.
func (c *Classifier) Classify(raw string, lineNo int) (Classification, error) {
	for _, r := range rules {
		m := r.match(raw)
		if m == nil {
			continue
		}
		res, err := r.apply(c, raw, lineNo, m)
		if err != nil {
			return Classification{Rule: r.name}, err
		}
		res.Rule = r.name
		return res, nil
	}
	return Classification{Rule: RuleNone}, nil
}

// withLine appends the tokenized line, if it has any text.
func withLine(nodes []ir.Content, line ir.Content) []ir.Content {
	if line == nil {
		return nodes
	}
	return append(nodes, line)
}

func classifyMeta(_ *Classifier, raw string, _ int, _ []string) (Classification, error) {
	if strings.TrimSpace(raw) == tags.MetaEnd {
		return Classification{}, nil
	}
	key, value, _ := strings.Cut(raw[len(tags.Meta):], tags.MetaSep)
	return Classification{Meta: &ir.MetaField{Key: key, Value: strings.TrimSpace(value)}}, nil
}

func classifyPage(_ *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	m := tags.PagePattern.FindStringSubmatch(raw)
	if m == nil {
		return Classification{}, errors.NewMalformedTag(lineNo, tags.Page,
			fmt.Sprintf("cannot read volume and page from %q", strings.TrimSpace(raw)))
	}
	return Classification{Nodes: []ir.Content{
		&ir.PageNumber{Orig: raw, Volume: m[1], Page: m[2]},
	}}, nil
}

func classifyRiwayat(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	rest := strings.TrimSpace(raw[len(tags.Riwayat):])
	nodes := []ir.Content{&ir.RiwayatUnit{Orig: raw}}
	nodes = withLine(nodes, c.tok.Tokenize(raw, rest, lineNo, LineText, &ir.Isnad{}))
	return Classification{Nodes: nodes}, nil
}

func classifyRoute(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	nodes := withLine(nil, c.tok.Tokenize(raw, strings.TrimSpace(raw), lineNo, LineText, nil))
	return Classification{Nodes: nodes}, nil
}

func classifyMorph(_ *Classifier, raw string, _ int, m []string) (Classification, error) {
	return Classification{Nodes: []ir.Content{
		&ir.MorphologicalPattern{Orig: raw, Category: m[1]},
	}}, nil
}

func classifyParagraph(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	rest := strings.TrimSpace(raw[len(tags.Paragraph):])
	if tags.HasHemistich(rest) {
		return Classification{Nodes: withLine(nil, c.tok.Tokenize(raw, rest, lineNo, LineVerse, nil))}, nil
	}
	nodes := []ir.Content{&ir.Paragraph{Orig: raw}}
	nodes = withLine(nodes, c.tok.Tokenize(raw, rest, lineNo, LineText, nil))
	return Classification{Nodes: nodes}, nil
}

func classifyContinuation(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	rest := strings.TrimSpace(raw[len(tags.Line):])
	return Classification{Nodes: withLine(nil, c.tok.Tokenize(raw, rest, lineNo, LineText, nil))}, nil
}

func classifySectionMarker(_ *Classifier, raw string, _ int, m []string) (Classification, error) {
	var node ir.Content
	switch m[0] {
	case tags.Editorial:
		node = &ir.Editorial{Orig: raw}
	case tags.Appendix:
		node = &ir.Appendix{Orig: raw}
	default:
		node = &ir.Paratext{Orig: raw}
	}
	return Classification{Nodes: []ir.Content{node}}, nil
}

func classifyHeader(_ *Classifier, raw string, _ int, m []string) (Classification, error) {
	level := len(m[1])
	value := strings.Join(strings.Fields(tags.StripAll(raw)), " ")
	return Classification{Nodes: []ir.Content{
		&ir.SectionHeader{Orig: raw, Value: value, Level: level},
	}}, nil
}

func classifyDictionary(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	sm, ok := firstPrefix(raw, tags.Dictionaries)
	if !ok {
		return Classification{}, nil
	}
	rest := remainder(raw, sm, tags.Dictionaries)
	nodes := []ir.Content{&ir.DictionaryUnit{Orig: raw, Type: ir.DictionaryType(sm.Subtype)}}
	nodes = withLine(nodes, c.tok.Tokenize(raw, rest, lineNo, LineText, nil))
	return Classification{Nodes: nodes}, nil
}

func classifyDoxographical(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	sm, ok := firstPrefix(raw, tags.Doxographical)
	if !ok {
		return Classification{}, nil
	}
	rest := remainder(raw, sm, tags.Doxographical)
	nodes := []ir.Content{&ir.DoxographicalItem{Orig: raw, Type: ir.DoxType(sm.Subtype)}}
	nodes = withLine(nodes, c.tok.Tokenize(raw, rest, lineNo, LineText, nil))
	return Classification{Nodes: nodes}, nil
}

func classifyBioEvent(c *Classifier, raw string, lineNo int, _ []string) (Classification, error) {
	sm, ok := firstPrefix(raw, tags.BiosEvents)
	if !ok {
		return Classification{}, nil
	}
	rest := remainder(raw, sm, tags.BiosEvents)
	nodes := []ir.Content{&ir.BioOrEvent{Orig: raw, Type: ir.BioType(sm.Subtype)}}
	nodes = withLine(nodes, c.tok.Tokenize(raw, rest, lineNo, LineText, nil))
	return Classification{Nodes: nodes}, nil
}

func classifyRegion(_ *Classifier, raw string, _ int, _ []string) (Classification, error) {
	return Classification{Nodes: []ir.Content{
		&ir.AdministrativeRegion{Orig: raw, Text: tags.StripRegionMarkers(raw)},
	}}, nil
}

// remainder is raw without its leading marker and any other marker of group.
func remainder(raw string, sm tags.SubtypeMarker, group []tags.SubtypeMarker) string {
	return strings.TrimSpace(tags.StripMarkers(raw[len(sm.Marker):], group))
}

// firstPrefix returns the first marker of an ordered group that raw starts with.
func firstPrefix(raw string, group []tags.SubtypeMarker) (tags.SubtypeMarker, bool) {
	for _, sm := range group {
		if strings.HasPrefix(raw, sm.Marker) {
			return sm, true
		}
	}
	return tags.SubtypeMarker{}, false
}
