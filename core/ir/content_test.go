package ir

import "testing"

func TestContentKinds(t *testing.T) {
	nodes := []Content{
		&PageNumber{},
		&Paragraph{},
		&SectionHeader{},
		&Editorial{},
		&Appendix{},
		&Paratext{},
		&DictionaryUnit{},
		&BioOrEvent{},
		&DoxographicalItem{},
		&MorphologicalPattern{},
		&AdministrativeRegion{},
		&RiwayatUnit{},
		&Line{},
		&Verse{},
	}
	if len(nodes) != len(ContentKinds) {
		t.Fatalf("%d nodes for %d kinds", len(nodes), len(ContentKinds))
	}
	for i, n := range nodes {
		if n.Kind() != ContentKinds[i] {
			t.Errorf("%T.Kind() = %q, want %q", n, n.Kind(), ContentKinds[i])
		}
	}
}

func TestPartKinds(t *testing.T) {
	parts := []Part{
		&TextPart{},
		&PageNumber{},
		&Milestone{},
		&Hemistich{},
		&Isnad{},
		&Matn{},
		&Hukm{},
		&RouteFrom{},
		&RouteTowards{},
		&RouteDistance{},
		&Date{},
		&Age{},
		&NamedEntity{},
		&OpenTagUser{},
		&OpenTagAuto{},
	}
	if len(parts) != len(PartKinds) {
		t.Fatalf("%d parts for %d kinds", len(parts), len(PartKinds))
	}
	for i, p := range parts {
		if p.PartKind() != PartKinds[i] {
			t.Errorf("%T.PartKind() = %q, want %q", p, p.PartKind(), PartKinds[i])
		}
	}
}

func TestPageNumberString(t *testing.T) {
	p := &PageNumber{Volume: "00", Page: "000"}
	if got := p.String(); got != "Vol. 00, p. 000" {
		t.Errorf("String() = %q", got)
	}
	if p.Text() != "" {
		t.Errorf("Text() = %q, want empty", p.Text())
	}
}

func TestVerseHemistichs(t *testing.T) {
	v := sampleDocument().Content[4].(*Verse)
	got := v.Hemistichs()
	if len(got) != 2 || got[0] != "a " || got[1] != " b" {
		t.Errorf("Hemistichs() = %q", got)
	}
}

func TestCleanText(t *testing.T) {
	parts := []Part{
		&Isnad{},
		&TextPart{Value: "haddathana "},
		&NamedEntity{Value: "zayd "},
		&Date{Value: "300"},
		&Milestone{Orig: "ms1"},
	}
	if got := CleanText(parts); got != "haddathana zayd 300" {
		t.Errorf("CleanText = %q", got)
	}
}

func TestDocumentMeta(t *testing.T) {
	doc := sampleDocument()
	if v, ok := doc.Meta("000.BookTITLE"); !ok || v != "Kitab" {
		t.Errorf("Meta = %q, %v", v, ok)
	}
	if _, ok := doc.Meta("missing"); ok {
		t.Error("Meta(missing) reported found")
	}
	if n := len(doc.Lines()); n != 2 {
		t.Errorf("len(Lines()) = %d, want 2", n)
	}
}
