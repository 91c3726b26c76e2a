// Package uri parses OpenITI text URIs such as
// "0255Jahiz.Hayawan.Shamela0001234-ara1.mARkdown".
//
// A URI names an author ("0255Jahiz"), a book by that author
// ("0255Jahiz.Hayawan") or one version of the book
// ("0255Jahiz.Hayawan.Shamela0001234-ara1"), optionally followed by the
// annotation-status extension of the file.
package uri

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenITI/oimdp/core/errors"
)

// Level is the granularity a URI names.
type Level string

const (
	LevelAuthor  Level = "author"
	LevelBook    Level = "book"
	LevelVersion Level = "version"
)

// Known file extensions. Files marked mARkdown or completed carry full
// annotation; inProgress files are being tagged.
const (
	ExtMarkdown   = "mARkdown"
	ExtCompleted  = "completed"
	ExtInProgress = "inProgress"
)

// URI is a parsed OpenITI text URI.
type URI struct {
	// Date is the author's death year in the hijri calendar.
	Date int `json:"date"`

	// Author is the author's short name, without the date.
	Author string `json:"author"`

	// Book is the short title, empty for author URIs.
	Book string `json:"book,omitempty"`

	// Source is the version identifier: collection name and id.
	Source string `json:"source,omitempty"`

	// Language is the three-letter language code of the version.
	Language string `json:"language,omitempty"`

	// Edition distinguishes several versions from the same source.
	Edition string `json:"edition,omitempty"`

	// Extension is the file extension, if the URI names a file.
	Extension string `json:"extension,omitempty"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type uriGrammar struct {
	Year   string    `@Year`
	Author string    `@Ident`
	Book   *bookPart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type bookPart struct {
	Title   string       `@Ident`
	Version *versionPart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versionPart struct {
	ID        string `@Version`
	Extension string `( "." @Ident )?`
}

// uriLexer tries Version before Ident so that "Shamela0001234-ara1" is
// read as one token.
var uriLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Year", Pattern: `[0-9]{4}`},
	{Name: "Version", Pattern: `[A-Za-z][A-Za-z0-9]*-[a-z]{3}[0-9]*`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9]*`},
	{Name: "Dot", Pattern: `\.`},
})

var uriParser = participle.MustBuild[uriGrammar](
	participle.Lexer(uriLexer),
	participle.UseLookahead(2),
)

// Parse reads a URI. A leading directory path is ignored.
func Parse(s string) (*URI, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("URI", "", "empty URI")
	}
	base := path.Base(strings.ReplaceAll(s, "\\", "/"))

	parsed, err := uriParser.ParseString("", base)
	if err != nil {
		return nil, errors.NewParse("URI", s, err.Error())
	}

	date, _ := strconv.Atoi(parsed.Year)
	u := &URI{Date: date, Author: parsed.Author}
	if parsed.Book == nil {
		return u, nil
	}
	u.Book = parsed.Book.Title
	if v := parsed.Book.Version; v != nil {
		u.Source, u.Language, u.Edition = splitVersion(v.ID)
		u.Extension = v.Extension
	}
	return u, nil
}

// splitVersion splits "Shamela0001234-ara1" into source, language and edition.
func splitVersion(id string) (source, lang, edition string) {
	source, suffix, _ := strings.Cut(id, "-")
	return source, suffix[:3], suffix[3:]
}

// Level reports whether the URI names an author, a book or a version.
func (u *URI) Level() Level {
	switch {
	case u.Source != "":
		return LevelVersion
	case u.Book != "":
		return LevelBook
	}
	return LevelAuthor
}

// AuthorID returns the author part, e.g. "0255Jahiz".
func (u *URI) AuthorID() string {
	return fmt.Sprintf("%04d%s", u.Date, u.Author)
}

// BookID returns the book part, e.g. "0255Jahiz.Hayawan", or "" for author URIs.
func (u *URI) BookID() string {
	if u.Book == "" {
		return ""
	}
	return u.AuthorID() + "." + u.Book
}

// String returns the canonical form of the URI, extension included.
func (u *URI) String() string {
	var sb strings.Builder
	sb.WriteString(u.AuthorID())
	if u.Book == "" {
		return sb.String()
	}
	sb.WriteString(".")
	sb.WriteString(u.Book)
	if u.Source == "" {
		return sb.String()
	}
	sb.WriteString(".")
	sb.WriteString(u.Source)
	sb.WriteString("-")
	sb.WriteString(u.Language)
	sb.WriteString(u.Edition)
	if u.Extension != "" {
		sb.WriteString(".")
		sb.WriteString(u.Extension)
	}
	return sb.String()
}

// Annotated reports whether the extension marks a fully tagged text.
func (u *URI) Annotated() bool {
	return u.Extension == ExtMarkdown || u.Extension == ExtCompleted
}

// CenturyDir returns the release directory for the author's century,
// e.g. "0275AH" for authors who died between 251 and 275.
func (u *URI) CenturyDir() string {
	bucket := ((u.Date + 24) / 25) * 25
	return fmt.Sprintf("%04dAH", bucket)
}
