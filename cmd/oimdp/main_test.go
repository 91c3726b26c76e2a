package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `######OpenITI#
#META# 000.AuthorNAME :: al-Jahiz
#META#Header#End#
### | Muqaddima
# qala @PER01 al-Jahiz fi kitabihi
~~ wa huwa kitab kabir PageV01P002
# bayt awwal %~% bayt thani
`

// Test helper functions

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestParseCmd_JSON(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "0255Jahiz.Hayawan.Shamela0001-ara1.mARkdown", sample)

	out, err := runCLI(t, "parse", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var doc struct {
		MagicValue string            `json:"magic_value"`
		Metadata   []json.RawMessage `json:"metadata"`
		Content    []struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.MagicValue != "######OpenITI#" || len(doc.Metadata) != 1 {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Content) == 0 || doc.Content[0].Type != "section_header" {
		t.Errorf("content = %+v", doc.Content)
	}
}

func TestParseCmd_XML(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "t.mARkdown", sample)

	out, err := runCLI(t, "parse", "--format", "xml", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, want := range []string{"<document", `<entity type="person"`, "<verse>"} {
		if !strings.Contains(out, want) {
			t.Errorf("XML output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCmd_MissingSentinel(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "bad.txt", "# no sentinel\n")
	if _, err := runCLI(t, "parse", path); err == nil {
		t.Error("expected error for text without sentinel")
	}
}

func TestTextCmd(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "t.mARkdown", sample)

	out, err := runCLI(t, "text", path)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	want := "Muqaddima\nqala al-Jahiz fi kitabihi\nwa huwa kitab kabir \nbayt awwal  bayt thani\n"
	if out != want {
		t.Errorf("text output = %q, want %q", out, want)
	}

	out, err = runCLI(t, "text", "--meta", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "000.AuthorNAME: al-Jahiz\n\n") {
		t.Errorf("text --meta output = %q", out)
	}
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	good := createTestFile(t, dir, "good.mARkdown", sample)
	bad := createTestFile(t, dir, "bad.mARkdown", "plain text\n")

	out, err := runCLI(t, "validate", good)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.HasPrefix(out, "OK") {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, "validate", good, bad)
	if err == nil {
		t.Fatal("expected error when a text fails")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(out, "FAIL "+bad) {
		t.Errorf("output = %q", out)
	}
}

func TestInfoCmd(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "0255Jahiz.Hayawan.Shamela0001-ara1.mARkdown", sample)

	out, err := runCLI(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	var got struct {
		Name string `json:"name"`
		URI  struct {
			Date   int    `json:"date"`
			Author string `json:"author"`
		} `json:"uri"`
		Level  string `json:"level"`
		Digest struct {
			SHA256 string `json:"sha256"`
		} `json:"digest"`
		Summary struct {
			Metadata int `json:"metadata"`
		} `json:"summary"`
		Outline []struct {
			Level int    `json:"level"`
			Title string `json:"title"`
		} `json:"outline"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.URI.Date != 255 || got.URI.Author != "Jahiz" || got.Level != "version" {
		t.Errorf("uri = %+v level %q", got.URI, got.Level)
	}
	if len(got.Digest.SHA256) != 64 {
		t.Errorf("sha256 = %q", got.Digest.SHA256)
	}
	if got.Summary.Metadata != 1 {
		t.Errorf("summary metadata = %d", got.Summary.Metadata)
	}
	if len(got.Outline) != 1 || got.Outline[0].Level != 1 || got.Outline[0].Title != "Muqaddima" {
		t.Errorf("outline = %+v", got.Outline)
	}
}

func TestQueryCmd(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "t.mARkdown", sample)

	out, err := runCLI(t, "query", path, "//entity[@type='person']")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if out != "al-Jahiz\n" {
		t.Errorf("query output = %q", out)
	}

	out, err = runCLI(t, "query", "--count", path, "//page")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n" {
		t.Errorf("count output = %q", out)
	}

	out, err = runCLI(t, "query", "--attr", "volume", path, "//page")
	if err != nil {
		t.Fatal(err)
	}
	if out != "01\n" {
		t.Errorf("attr output = %q", out)
	}

	if _, err := runCLI(t, "query", path, "//["); err == nil {
		t.Error("expected error for invalid XPath")
	}
}

func TestIndexAndSearch(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "index.db")
	path := createTestFile(t, dir, "0255Jahiz.Hayawan", sample)

	out, err := runCLI(t, "--db", db, "index", path)
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if !strings.Contains(out, "\tadded\t0255Jahiz.Hayawan") {
		t.Errorf("index output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "index", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\texists\t") {
		t.Errorf("second index output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "search", "kitab")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 {
		t.Errorf("search output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "search", "--kinds")
	if err != nil {
		t.Fatal(err)
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("kinds output is not JSON: %v", err)
	}
	if counts["verse"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestBatchCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".mARkdown") && !strings.Contains(r.URL.Path, "bad") {
			fmt.Fprint(w, sample)
			return
		}
		fmt.Fprint(w, "not markdown")
	}))
	defer srv.Close()

	row := func(url string) string {
		return strings.Join([]string{"1", "a", "b", "c", "d", "e", "f", url}, "\t")
	}
	release := createTestFile(t, t.TempDir(), "release.tsv", strings.Join([]string{
		row(srv.URL + "/0255Jahiz.Hayawan.Shamela1-ara1.mARkdown"),
		row(srv.URL + "/bad.mARkdown"),
		row(srv.URL + "/skipped.inProgress"),
	}, "\n"))

	out, err := runCLI(t, "batch", "--workers", "2", release)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if !strings.Contains(out, "1 parsed, 1 failed") {
		t.Errorf("batch output = %q", out)
	}
	if !strings.Contains(out, "ERR  "+srv.URL+"/bad.mARkdown") {
		t.Errorf("batch output missing failure line: %q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "oimdp version "+version) {
		t.Errorf("version output = %q", out)
	}
}

func TestGlobals_BadLogLevel(t *testing.T) {
	if _, err := runCLI(t, "--log-level", "loud", "version"); err == nil {
		t.Error("expected error for unknown log level")
	}
}
