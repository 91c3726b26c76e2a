package xml

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/OpenITI/oimdp/core/encoding"
	"github.com/OpenITI/oimdp/core/ir"
)

// Export renders a document as XML. Every content node becomes one child
// of <document>; lines and verses hold one child element per part.
//
//	<document magic="######OpenITI#">
//	  <meta key="000.BookTITLE">Kitab</meta>
//	  <header level="1">Bab</header>
//	  <line><text>qala </text><entity type="person" prefix="0" extent="1">Zayd </entity></line>
//	</document>
func Export(d *ir.Document) []byte {
	var w bytes.Buffer
	w.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	w.WriteString(`<document magic="` + encoding.Attr(d.MagicValue) + `">` + "\n")
	for _, f := range d.Metadata {
		w.WriteString(`  <meta key="` + encoding.Attr(f.Key) + `">`)
		w.WriteString(encoding.Text(f.Value))
		w.WriteString("</meta>\n")
	}
	for _, c := range d.Content {
		w.WriteString("  ")
		writeContent(&w, c)
		w.WriteString("\n")
	}
	w.WriteString("</document>\n")
	return w.Bytes()
}

type attr struct{ name, value string }

func writeEmpty(w *bytes.Buffer, name string, attrs ...attr) {
	w.WriteString("<" + name)
	writeAttrs(w, attrs)
	w.WriteString("/>")
}

func writeElem(w *bytes.Buffer, name, text string, attrs ...attr) {
	if text == "" {
		writeEmpty(w, name, attrs...)
		return
	}
	w.WriteString("<" + name)
	writeAttrs(w, attrs)
	w.WriteString(">")
	w.WriteString(encoding.Text(text))
	w.WriteString("</" + name + ">")
}

func writeAttrs(w *bytes.Buffer, attrs []attr) {
	for _, a := range attrs {
		if a.value == "" {
			continue
		}
		w.WriteString(" " + a.name + `="` + encoding.Attr(a.value) + `"`)
	}
}

func writeContent(w *bytes.Buffer, c ir.Content) {
	switch n := c.(type) {
	case *ir.PageNumber:
		writeEmpty(w, "page", attr{"volume", n.Volume}, attr{"page", n.Page})
	case *ir.Paragraph:
		writeEmpty(w, "paragraph")
	case *ir.SectionHeader:
		writeElem(w, "header", n.Value, attr{"level", strconv.Itoa(n.Level)})
	case *ir.Editorial:
		writeEmpty(w, "editorial")
	case *ir.Appendix:
		writeEmpty(w, "appendix")
	case *ir.Paratext:
		writeEmpty(w, "paratext")
	case *ir.DictionaryUnit:
		writeEmpty(w, "dictionary", attr{"type", string(n.Type)})
	case *ir.BioOrEvent:
		writeEmpty(w, "bio", attr{"type", string(n.Type)})
	case *ir.DoxographicalItem:
		writeEmpty(w, "doxographical", attr{"type", string(n.Type)})
	case *ir.MorphologicalPattern:
		writeEmpty(w, "morphological", attr{"category", n.Category})
	case *ir.AdministrativeRegion:
		writeElem(w, "region", n.Text)
	case *ir.RiwayatUnit:
		writeEmpty(w, "riwayat")
	case *ir.Line:
		writeLine(w, "line", n)
	case *ir.Verse:
		writeLine(w, "verse", &n.Line)
	default:
		panic(fmt.Sprintf("xml: unhandled content %T", c))
	}
}

func writeLine(w *bytes.Buffer, name string, l *ir.Line) {
	w.WriteString("<" + name + ">")
	for _, p := range l.Parts {
		writePart(w, p)
	}
	w.WriteString("</" + name + ">")
}

func writePart(w *bytes.Buffer, p ir.Part) {
	switch n := p.(type) {
	case *ir.TextPart:
		writeElem(w, "text", n.Value)
	case *ir.PageNumber:
		writeEmpty(w, "page", attr{"volume", n.Volume}, attr{"page", n.Page})
	case *ir.Milestone:
		writeEmpty(w, "milestone", attr{"orig", n.Orig})
	case *ir.Hemistich:
		writeEmpty(w, "hemistich")
	case *ir.Isnad:
		writeEmpty(w, "isnad")
	case *ir.Matn:
		writeEmpty(w, "matn")
	case *ir.Hukm:
		writeEmpty(w, "hukm")
	case *ir.RouteFrom:
		writeEmpty(w, "route-from")
	case *ir.RouteTowards:
		writeEmpty(w, "route-towards")
	case *ir.RouteDistance:
		writeEmpty(w, "route-distance")
	case *ir.Date:
		writeElem(w, "date", n.Value, attr{"type", string(n.Type)},
			attr{"prefix", strconv.Itoa(n.Prefix)}, attr{"extent", strconv.Itoa(n.Extent)})
	case *ir.Age:
		writeElem(w, "age", n.Value,
			attr{"prefix", strconv.Itoa(n.Prefix)}, attr{"extent", strconv.Itoa(n.Extent)})
	case *ir.NamedEntity:
		writeElem(w, "entity", n.Value, attr{"type", string(n.Type)},
			attr{"prefix", strconv.Itoa(n.Prefix)}, attr{"extent", strconv.Itoa(n.Extent)})
	case *ir.OpenTagUser:
		writeEmpty(w, "tag", attr{"user", n.User}, attr{"type", n.Type},
			attr{"subtype", n.Subtype}, attr{"subsubtype", n.Subsubtype})
	case *ir.OpenTagAuto:
		writeEmpty(w, "autotag", attr{"resp", n.Resp}, attr{"type", n.Type},
			attr{"category", n.Category}, attr{"review", n.Review})
	default:
		panic(fmt.Sprintf("xml: unhandled part %T", p))
	}
}

// Query exports d and returns the text of every node matched by expr.
func Query(d *ir.Document, expr string) ([]string, error) {
	return query(d, expr, (*Node).Text)
}

// QueryAttr is Query returning the value of attribute name of each match.
// Matches without the attribute yield an empty string.
func QueryAttr(d *ir.Document, expr, name string) ([]string, error) {
	return query(d, expr, func(n *Node) string { return n.Attr(name) })
}

func query(d *ir.Document, expr string, value func(*Node) string) ([]string, error) {
	doc, err := Parse(Export(d))
	if err != nil {
		return nil, err
	}
	nodes, err := doc.XPath(expr)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = value(n)
	}
	return out, nil
}

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// Outline exports d and returns its section headers in document order.
func Outline(d *ir.Document) ([]Heading, error) {
	doc, err := Parse(Export(d))
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	var out []Heading
	for _, n := range root.Children() {
		if n.Name() != "header" {
			continue
		}
		level, err := strconv.Atoi(n.Attr("level"))
		if err != nil {
			return nil, fmt.Errorf("header %q has no level: %w", n.Text(), err)
		}
		out = append(out, Heading{Level: level, Title: n.Text()})
	}
	return out, nil
}

// Count exports d and evaluates expr, returning the number of matched
// nodes, or the value of a numeric expression such as count(//entity).
func Count(d *ir.Document, expr string) (float64, error) {
	doc, err := Parse(Export(d))
	if err != nil {
		return 0, err
	}
	v, err := doc.Evaluate(expr)
	if err != nil {
		return 0, err
	}
	switch v := v.(type) {
	case []*Node:
		return float64(len(v)), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("xpath %q returned non-numeric %q", expr, v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("xpath %q returned %T", expr, v)
}
