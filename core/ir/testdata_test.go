package ir

// sampleDocument builds a small document by hand, the way the parser would
// emit it for a header, a paragraph with a person entity and a verse.
func sampleDocument() *Document {
	return &Document{
		OrigText:   "######OpenITI#\n#META# 000.BookTITLE :: Kitab\n### | Bab\n# qala @PER01 Zayd hadha\nPageV01P002\n# a %~% b\n",
		MagicValue: "######OpenITI#",
		Metadata:   []MetaField{{Key: " 000.BookTITLE ", Value: "Kitab"}},
		Content: []Content{
			&SectionHeader{Orig: "### | Bab", Value: "Bab", Level: 1},
			&Paragraph{Orig: "# qala @PER01 Zayd hadha"},
			&Line{
				Orig: "# qala @PER01 Zayd hadha",
				Text: "qala Zayd hadha",
				Parts: []Part{
					&TextPart{Value: "qala "},
					&NamedEntity{Value: "Zayd ", Type: EntityPerson, Prefix: 0, Extent: 1},
					&TextPart{Value: "hadha"},
				},
			},
			&PageNumber{Orig: "PageV01P002", Volume: "01", Page: "002"},
			&Verse{Line: Line{
				Orig: "# a %~% b",
				Text: "a  b",
				Parts: []Part{
					&TextPart{Value: "a "},
					&Hemistich{},
					&TextPart{Value: " b"},
				},
			}},
		},
	}
}
