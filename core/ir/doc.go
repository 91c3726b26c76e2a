// Package ir provides the typed document tree produced by parsing an
// OpenITI mARkdown text.
//
// The tree is flat: a Document owns its metadata fields and one ordered
// sequence of content nodes, in source line order. Nodes are built once by
// the parser and never mutated afterward.
//
// # Content nodes
//
// Content is a closed set of node types. Structural markers (PageNumber,
// Paragraph, SectionHeader, DictionaryUnit, BioOrEvent, ...) are emitted
// before the Line that carries their running text:
//
//   - PageNumber: volume/page boundary
//   - SectionHeader: header text with level 1-5
//   - Line, Verse: running text split into phrase parts
//
// # Phrase parts
//
// A Line owns an ordered list of Part values. Concatenating Part.Text() of
// every part reproduces exactly the Line's clean (tag-stripped) text.
// Named entities, dates and ages carry the words they capture from the
// text after their tag.
//
// # Example
//
//	for _, c := range doc.Content {
//	    switch n := c.(type) {
//	    case *ir.SectionHeader:
//	        fmt.Println(n.Level, n.Value)
//	    case *ir.Line:
//	        fmt.Println(n.Text)
//	    }
//	}
package ir
