// Package encoding provides the text escaping used when projecting a
// document to XML.
package encoding

import (
	"strings"
	"unicode/utf8"
)

// EscapeXMLText escapes the basic XML entities for text content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in double-quoted XML attributes.
// Line breaks and tabs become character references so that attribute
// normalization does not fold them into spaces.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "\n", "&#xA;")
	s = strings.ReplaceAll(s, "\r", "&#xD;")
	s = strings.ReplaceAll(s, "\t", "&#x9;")
	return s
}

// XMLSafe drops runes that XML 1.0 does not allow in documents, such as
// C0 control characters and invalid UTF-8. Tab, newline and carriage
// return are kept.
func XMLSafe(s string) string {
	if isXMLSafe(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				continue
			}
		}
		if validXMLRune(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Text escapes s for element content after dropping invalid runes.
func Text(s string) string { return EscapeXMLText(XMLSafe(s)) }

// Attr escapes s for an attribute value after dropping invalid runes.
func Attr(s string) string { return EscapeXMLAttr(XMLSafe(s)) }

func isXMLSafe(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !validXMLRune(r) {
			return false
		}
	}
	return true
}

// validXMLRune reports whether r is in the XML 1.0 Char production.
func validXMLRune(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
