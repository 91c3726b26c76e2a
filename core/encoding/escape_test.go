package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "qala abu bakr", "qala abu bakr"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"less than", "a < b", "a &lt; b"},
		{"greater than", "a > b", "a &gt; b"},
		{"quotes preserved", `qala "la"`, `qala "la"`},
		{"all three", "<script>&</script>", "&lt;script&gt;&amp;&lt;/script&gt;"},
		{"arabic", "قال أبو بكر", "قال أبو بكر"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLText(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "000.BookTITLE", "000.BookTITLE"},
		{"quotes", `a "b"`, "a &quot;b&quot;"},
		{"entities", "a<b&c", "a&lt;b&amp;c"},
		{"whitespace", "a\tb\nc\r", "a&#x9;b&#xA;c&#xD;"},
		{"sentinel", "######OpenITI#", "######OpenITI#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLAttr(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLAttr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestXMLSafe(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "abc", "abc"},
		{"nul", "a\x00b", "ab"},
		{"vertical tab", "a\vb", "ab"},
		{"keeps tab and newline", "a\tb\nc", "a\tb\nc"},
		{"invalid utf8", "a\xffb", "ab"},
		{"keeps replacement char", "a\uFFFDb", "a\uFFFDb"},
		{"noncharacter", "a\uFFFEb", "ab"},
		{"arabic", "كتاب", "كتاب"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XMLSafe(tt.input); got != tt.want {
				t.Errorf("XMLSafe(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextAndAttr(t *testing.T) {
	if got := Text("a\x01<b"); got != "a&lt;b" {
		t.Errorf("Text = %q", got)
	}
	if got := Attr("a\x01\"b"); got != "a&quot;b" {
		t.Errorf("Attr = %q", got)
	}
}
