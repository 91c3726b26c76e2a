package parser

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/tags"
)

// LineKind selects the node built by the tokenizer.
type LineKind int

const (
	// LineText builds an *ir.Line.
	LineText LineKind = iota
	// LineVerse builds an *ir.Verse.
	LineVerse
)

// Tokenizer splits a tagged line into typed phrase parts.
// It holds no per-line state and is safe for concurrent use.
type Tokenizer struct {
	log *slog.Logger
}

// NewTokenizer returns a tokenizer that reports debug events to log.
func NewTokenizer(log *slog.Logger) *Tokenizer {
	if log == nil {
		log = discardLogger()
	}
	return &Tokenizer{log: log}
}

// foldState is threaded through the token steps of one line.
type foldState struct {
	parts   []ir.Part
	pending *pendingEntity
}

// pendingEntity is an entity tag waiting for the words that follow it.
type pendingEntity struct {
	marker string
	class  tags.EntityClass
	prefix int
	extent int
}

// Tokenize builds a Line (or Verse) from tagged, the text of orig with its
// line-level marker already removed. lead, when non-nil, becomes the first
// part. It returns nil when the clean text is empty.
func (t *Tokenizer) Tokenize(orig, tagged string, lineNo int, kind LineKind, lead ir.Part) ir.Content {
	clean := tags.Strip(tagged)
	if strings.TrimSpace(clean) == "" {
		return nil
	}

	var st foldState
	if lead != nil {
		st.parts = append(st.parts, lead)
	}

	pos := 0
	for _, m := range tags.FindPhraseTags(tagged) {
		st = t.run(st, tagged[pos:m.Start], lineNo)
		st = tag(st, m)
		pos = m.End
	}
	st = t.run(st, tagged[pos:], lineNo)
	st = st.flush("")

	line := ir.Line{Orig: orig, Text: clean, Parts: st.parts}
	if kind == LineVerse {
		return &ir.Verse{Line: line}
	}
	return &line
}

// run consumes a plain run between two tags. A pending entity takes its
// words from the start of the run; what is left becomes a text part.
func (t *Tokenizer) run(st foldState, s string, lineNo int) foldState {
	if st.pending == nil {
		if s != "" {
			st.parts = append(st.parts, &ir.TextPart{Value: s})
		}
		return st
	}

	want := st.pending.extent
	body := strings.TrimLeftFunc(s, unicode.IsSpace)
	captured, rest, got := takeWords(body, want)
	if got < want {
		t.log.Debug("entity span truncated",
			"line", lineNo,
			"marker", st.pending.marker,
			"want", want,
			"got", got,
		)
	}
	st = st.flush(captured)
	if rest != "" {
		st.parts = append(st.parts, &ir.TextPart{Value: rest})
	}
	return st
}

// tag appends the part for one tag token. Any pending entity is closed
// first, with whatever it has captured so far (nothing).
func tag(st foldState, m tags.Match) foldState {
	st = st.flush("")

	switch m.Kind {
	case tags.TokenPage:
		st.parts = append(st.parts, &ir.PageNumber{Orig: m.Text, Volume: m.Fields[0], Page: m.Fields[1]})
	case tags.TokenMilestone:
		st.parts = append(st.parts, &ir.Milestone{Orig: m.Text})
	case tags.TokenOpenAuto:
		st.parts = append(st.parts, &ir.OpenTagAuto{
			Orig:     m.Text,
			Resp:     m.Fields[0],
			Type:     m.Fields[1],
			Category: m.Fields[2],
			Review:   m.Fields[3],
		})
	case tags.TokenOpenUser:
		st.parts = append(st.parts, &ir.OpenTagUser{
			Orig:       m.Text,
			User:       m.Fields[0],
			Type:       m.Fields[1],
			Subtype:    m.Fields[2],
			Subsubtype: m.Fields[3],
		})
	case tags.TokenLiteral:
		if p := literalPart(m.Text); p != nil {
			st.parts = append(st.parts, p)
		}
	case tags.TokenEntity:
		class, _ := tags.EntityClassOf(m.Fields[0])
		pe := &pendingEntity{
			marker: m.Fields[0],
			class:  class,
			prefix: digit(m.Fields[1]),
			extent: digit(m.Fields[2]),
		}
		if pe.extent > 0 {
			st.pending = pe
		} else {
			st.parts = append(st.parts, pe.build(""))
		}
	}
	return st
}

// flush closes the pending entity, if any, with the given capture.
func (st foldState) flush(captured string) foldState {
	if st.pending != nil {
		st.parts = append(st.parts, st.pending.build(captured))
		st.pending = nil
	}
	return st
}

func (pe *pendingEntity) build(captured string) ir.Part {
	switch pe.class {
	case tags.ClassBirth:
		return &ir.Date{Value: captured, Type: ir.DateBirth, Prefix: pe.prefix, Extent: pe.extent}
	case tags.ClassDeath:
		return &ir.Date{Value: captured, Type: ir.DateDeath, Prefix: pe.prefix, Extent: pe.extent}
	case tags.ClassYear:
		return &ir.Date{Value: captured, Type: ir.DateOther, Prefix: pe.prefix, Extent: pe.extent}
	case tags.ClassAge:
		return &ir.Age{Value: captured, Prefix: pe.prefix, Extent: pe.extent}
	}
	return &ir.NamedEntity{
		Value:  captured,
		Type:   ir.EntityType(pe.class),
		Prefix: pe.prefix,
		Extent: pe.extent,
	}
}

func literalPart(marker string) ir.Part {
	switch marker {
	case tags.Hemistich:
		return &ir.Hemistich{}
	case tags.Matn:
		return &ir.Matn{}
	case tags.Hukm:
		return &ir.Hukm{}
	case tags.RouteFrom:
		return &ir.RouteFrom{}
	case tags.RouteTowa:
		return &ir.RouteTowards{}
	case tags.RouteDist:
		return &ir.RouteDistance{}
	}
	return nil
}

// takeWords splits s after its first n whitespace-delimited words and the
// whitespace that follows them. s must not start with whitespace.
func takeWords(s string, n int) (captured, rest string, got int) {
	i := 0
	for got < n && i < len(s) {
		j := strings.IndexFunc(s[i:], unicode.IsSpace)
		got++
		if j < 0 {
			i = len(s)
			break
		}
		i += j
		k := strings.IndexFunc(s[i:], notSpace)
		if k < 0 {
			i = len(s)
			break
		}
		i += k
	}
	return s[:i], s[i:], got
}

func notSpace(r rune) bool { return !unicode.IsSpace(r) }

func digit(s string) int {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}
