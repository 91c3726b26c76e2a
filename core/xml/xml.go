// Package xml projects parsed documents to XML and queries the result with
// XPath.
//
// Parsing goes through xmlquery, which uses Go's encoding/xml and never
// fetches external entities.
package xml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/OpenITI/oimdp/core/encoding"
	"github.com/OpenITI/oimdp/core/errors"
)

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is an element or text node of a Document.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError is a single well-formedness error.
type ValidationError struct {
	Offset  int64
	Message string
}

// FormatOptions controls XML formatting behavior.
type FormatOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return &Document{root: root}, nil
}

// Validate checks that data is well-formed. Entity expansion is disabled.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Offset:  decoder.InputOffset(),
				Message: err.Error(),
			})
			break
		}
	}
	return result
}

// Format pretty-prints XML data. Text content is kept verbatim so that
// the whitespace inside lines survives.
func Format(data []byte, opts FormatOptions) ([]byte, error) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	formatNode(&buf, doc.root, 0, opts.Indent)
	return buf.Bytes(), nil
}

func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			formatNode(w, child, depth, indent)
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attr.Name.Local)
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		writeIndent(w, depth, indent)
		writeOpen(w, n)
		if n.FirstChild == nil {
			w.WriteString("/>\n")
			return
		}
		w.WriteString(">")
		if mixed(n) {
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				writeInline(w, child)
			}
		} else {
			w.WriteString("\n")
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				formatNode(w, child, depth+1, indent)
			}
			writeIndent(w, depth, indent)
		}
		w.WriteString("</")
		w.WriteString(qualified(n))
		w.WriteString(">\n")

	case xmlquery.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			writeIndent(w, depth, indent)
			w.WriteString(encoding.EscapeXMLText(text))
			w.WriteString("\n")
		}

	case xmlquery.CommentNode:
		writeIndent(w, depth, indent)
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->\n")
	}
}

// writeInline writes n without added whitespace, text verbatim.
func writeInline(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode:
		w.WriteString(encoding.EscapeXMLText(n.Data))
	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")
	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	case xmlquery.ElementNode:
		writeOpen(w, n)
		if n.FirstChild == nil {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeInline(w, child)
		}
		w.WriteString("</")
		w.WriteString(qualified(n))
		w.WriteString(">")
	}
}

// mixed reports whether n has a non-blank text child.
func mixed(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if (child.Type == xmlquery.TextNode || child.Type == xmlquery.CharDataNode) &&
			strings.TrimSpace(child.Data) != "" {
			return true
		}
	}
	return false
}

func writeOpen(w *bytes.Buffer, n *xmlquery.Node) {
	w.WriteString("<")
	w.WriteString(qualified(n))
	for _, attr := range n.Attr {
		w.WriteString(" ")
		if attr.Name.Space != "" {
			w.WriteString(attr.Name.Space)
			w.WriteString(":")
		}
		w.WriteString(attr.Name.Local)
		w.WriteString("=\"")
		w.WriteString(encoding.EscapeXMLAttr(attr.Value))
		w.WriteString("\"")
	}
}

func qualified(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

func writeIndent(w *bytes.Buffer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := compile(expr); err != nil {
		return nil, err
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, &errors.ParseError{Format: "XPath", Path: expr, Message: err.Error(), Err: err}
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// Evaluate runs expr against the document. Number, string and boolean
// results are returned as float64, string and bool; node sets as []*Node.
func (d *Document) Evaluate(expr string) (any, error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	v := e.Evaluate(xmlquery.CreateXPathNavigator(d.root))
	if _, ok := v.(*xpath.NodeIterator); !ok {
		return v, nil
	}
	found := xmlquery.QuerySelectorAll(d.root, e)
	nodes := make([]*Node, len(found))
	for i, n := range found {
		nodes[i] = &Node{node: n}
	}
	return nodes, nil
}

func compile(expr string) (*xpath.Expr, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, &errors.ParseError{Format: "XPath", Path: expr, Message: err.Error(), Err: err}
	}
	return e, nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n.node == nil {
		return nil
	}
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}
