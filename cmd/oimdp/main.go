// Command oimdp parses OpenITI mARkdown texts.
// It prints document trees, clean prose and summaries, runs XPath queries
// over the XML export, and maintains a SQLite index of parsed texts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/OpenITI/oimdp/core/cache"
	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/parser"
	"github.com/OpenITI/oimdp/core/sqlite"
	"github.com/OpenITI/oimdp/core/store"
	"github.com/OpenITI/oimdp/core/uri"
	"github.com/OpenITI/oimdp/core/xml"
	"github.com/OpenITI/oimdp/internal/batch"
	"github.com/OpenITI/oimdp/internal/logging"
	"github.com/OpenITI/oimdp/internal/source"
)

const version = "0.4.0"

// configPaths are read in order; later files override earlier ones.
var configPaths = []string{
	"/etc/oimdp/config.json",
	"~/.config/oimdp/config.json",
	"./oimdp.json",
}

// CLI defines the command-line interface for oimdp.
type CLI struct {
	Globals

	Parse    ParseCmd    `cmd:"" help:"Parse a text and print its document tree"`
	Text     TextCmd     `cmd:"" help:"Print the clean prose of a text"`
	Validate ValidateCmd `cmd:"" help:"Check that texts parse into consistent trees"`
	Info     InfoCmd     `cmd:"" help:"Summarize a text"`
	Query    QueryCmd    `cmd:"" help:"Run an XPath expression over the XML export of a text"`
	Index    IndexCmd    `cmd:"" help:"Parse texts and add them to the SQLite index"`
	Search   SearchCmd   `cmd:"" help:"Search line text in the SQLite index"`
	Batch    BatchCmd    `cmd:"" help:"Parse every text listed in a release metadata file"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command.
type Globals struct {
	LogLevel  string        `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"OIMDP_LOG_LEVEL"`
	LogFormat string        `name:"log-format" help:"Log format (text, json)" default:"text" env:"OIMDP_LOG_FORMAT"`
	Strict    bool          `help:"Require the first line to equal the sentinel exactly"`
	NFC       bool          `name:"nfc" help:"Normalize input to Unicode NFC before parsing"`
	Timeout   time.Duration `help:"Timeout for fetching URLs" default:"60s"`
	DB        string        `name:"db" help:"SQLite index path" default:"oimdp.db" env:"OIMDP_DB" type:"path"`

	ctx context.Context `kong:"-"`
	out io.Writer       `kong:"-"`
}

func (g *Globals) sourceOptions() source.Options {
	return source.Options{NFC: g.NFC, Timeout: g.Timeout}
}

func (g *Globals) parseOptions() []parser.Option {
	return []parser.Option{
		parser.WithStrict(g.Strict),
		parser.WithLogger(logging.GetLogger()),
	}
}

// load reads and parses one input.
func (g *Globals) load(input string) (*ir.Document, error) {
	text, err := source.Load(g.ctx, input, g.sourceOptions())
	if err != nil {
		return nil, err
	}
	start := time.Now()
	doc, err := parser.Parse(text, g.parseOptions()...)
	if err != nil {
		logging.ParseFailure(g.ctx, input, err)
		return nil, err
	}
	logging.DocumentParsed(g.ctx, input, len(doc.Metadata), len(doc.Content), time.Since(start))
	return doc, nil
}

func (g *Globals) printJSON(v any) error {
	enc := json.NewEncoder(g.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ParseCmd prints the document tree as JSON or XML.
type ParseCmd struct {
	Input  string `arg:"" help:"File path, URL or - for stdin"`
	Format string `help:"Output format (json, xml)" enum:"json,xml" default:"json" short:"f"`
}

func (c *ParseCmd) Run(g *Globals) error {
	doc, err := g.load(c.Input)
	if err != nil {
		return err
	}
	if c.Format == "xml" {
		out, err := xml.Format(xml.Export(doc), xml.FormatOptions{Indent: "  "})
		if err != nil {
			return fmt.Errorf("failed to format XML: %w", err)
		}
		_, err = g.out.Write(out)
		return err
	}
	return g.printJSON(doc)
}

// TextCmd prints the clean prose of a text.
type TextCmd struct {
	Input string `arg:"" help:"File path, URL or - for stdin"`
	Meta  bool   `help:"Print the metadata block first"`
}

func (c *TextCmd) Run(g *Globals) error {
	doc, err := g.load(c.Input)
	if err != nil {
		return err
	}
	_, err = io.WriteString(g.out, ir.Flatten(doc, c.Meta))
	return err
}

// ValidateCmd parses texts and checks their trees and XML exports.
type ValidateCmd struct {
	Inputs []string `arg:"" help:"File paths or URLs"`
}

func (c *ValidateCmd) Run(g *Globals) error {
	failed := 0
	for _, input := range c.Inputs {
		doc, err := g.load(input)
		if err != nil {
			fmt.Fprintf(g.out, "FAIL %s: %v\n", input, err)
			failed++
			continue
		}
		errs := ir.Validate(doc)
		if res := xml.Validate(xml.Export(doc)); !res.Valid {
			for _, e := range res.Errors {
				errs = append(errs, fmt.Errorf("xml export at offset %d: %s", e.Offset, e.Message))
			}
		}
		if len(errs) == 0 {
			fmt.Fprintf(g.out, "OK   %s\n", input)
			continue
		}
		failed++
		fmt.Fprintf(g.out, "FAIL %s\n", input)
		for _, e := range errs {
			fmt.Fprintf(g.out, "  %v\n", e)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d texts failed validation", failed, len(c.Inputs))
	}
	return nil
}

// InfoCmd prints a summary of a text.
type InfoCmd struct {
	Input string `arg:"" help:"File path, URL or - for stdin"`
}

type infoOutput struct {
	Name    string        `json:"name"`
	URI     *uri.URI      `json:"uri,omitempty"`
	Level   uri.Level     `json:"level,omitempty"`
	Digest  ir.HashResult `json:"digest"`
	Summary ir.Summary    `json:"summary"`
	Outline []xml.Heading `json:"outline"`
}

func (c *InfoCmd) Run(g *Globals) error {
	doc, err := g.load(c.Input)
	if err != nil {
		return err
	}
	out := infoOutput{
		Name:    source.Name(c.Input),
		Digest:  ir.Digest(doc),
		Summary: ir.Summarize(doc),
	}
	if out.Outline, err = xml.Outline(doc); err != nil {
		return err
	}
	if u, err := uri.Parse(out.Name); err == nil {
		out.URI = u
		out.Level = u.Level()
	} else {
		logging.Debug("name is not an OpenITI URI", "name", out.Name, "error", err)
	}
	return g.printJSON(out)
}

// QueryCmd runs XPath over the XML export of a text.
type QueryCmd struct {
	Input string `arg:"" help:"File path, URL or - for stdin"`
	Expr  string `arg:"" help:"XPath expression, e.g. //entity[@type='person']"`
	Count bool   `help:"Print the number of matches or the numeric value of the expression"`
	Attr  string `help:"Print this attribute of each match instead of its text"`
}

func (c *QueryCmd) Run(g *Globals) error {
	doc, err := g.load(c.Input)
	if err != nil {
		return err
	}
	if c.Count {
		n, err := xml.Count(doc, c.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out, "%g\n", n)
		return nil
	}
	var results []string
	if c.Attr != "" {
		results, err = xml.QueryAttr(doc, c.Expr, c.Attr)
	} else {
		results, err = xml.Query(doc, c.Expr)
	}
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintln(g.out, strings.TrimSpace(r))
	}
	return nil
}

// IndexCmd adds texts to the index.
type IndexCmd struct {
	Inputs []string `arg:"" help:"File paths or URLs"`
}

func (c *IndexCmd) Run(g *Globals) error {
	st, err := store.Open(g.ctx, g.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := logging.WithRunID(g.ctx, uuid.New().String())
	for _, input := range c.Inputs {
		doc, err := g.load(input)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		rec, created, err := st.Save(ctx, source.Name(input), doc)
		if err != nil {
			return err
		}
		state := "exists"
		if created {
			state = "added"
			logging.StoreEvent(ctx, "save", rec.ID, "name", rec.Name, "nodes", rec.Nodes)
		}
		fmt.Fprintf(g.out, "%s\t%s\t%s\n", rec.ID, state, rec.Name)
	}
	return nil
}

// SearchCmd searches indexed text.
type SearchCmd struct {
	Term  string `arg:"" optional:"" help:"Text to look for"`
	Limit int    `help:"Maximum number of hits (0 for all)" default:"20" short:"n"`
	Kinds bool   `help:"Print node counts per kind instead of searching"`
}

func (c *SearchCmd) Run(g *Globals) error {
	st, err := store.Open(g.ctx, g.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	if c.Kinds {
		counts, err := st.KindCounts(g.ctx)
		if err != nil {
			return err
		}
		return g.printJSON(counts)
	}

	hits, err := st.Search(g.ctx, c.Term, c.Limit)
	if err != nil {
		return err
	}
	logging.StoreEvent(g.ctx, "search", "", "term", c.Term, "hits", len(hits))
	for _, h := range hits {
		fmt.Fprintf(g.out, "%s:%d\t%s\t%s\n", h.Name, h.Seq, h.Kind, h.Text)
	}
	return nil
}

// BatchCmd parses every text listed in a release metadata file.
type BatchCmd struct {
	Release string `arg:"" help:"Release metadata file path or URL"`
	Workers int    `help:"Number of concurrent downloads and parses (0 for one per CPU)" default:"4" short:"w"`
	Index   bool   `help:"Add parsed texts to the SQLite index"`
	JSON    bool   `name:"json" help:"Print the full report as JSON"`
	CacheMB int64  `name:"cache-mb" help:"Megabytes of source text kept as parsed documents (0 disables)" default:"256"`
}

func (c *BatchCmd) Run(g *Globals) error {
	meta, err := source.Load(g.ctx, c.Release, source.Options{Timeout: g.Timeout})
	if err != nil {
		return err
	}
	items, err := batch.ReadRelease(strings.NewReader(meta))
	if err != nil {
		return err
	}
	logging.Info("batch_start", "items", len(items), "workers", c.Workers)

	r := &batch.Runner{
		Workers: c.Workers,
		Source:  g.sourceOptions(),
		Parse:   g.parseOptions(),
	}
	if c.CacheMB > 0 {
		r.Cache = cache.NewDocumentCache(0, c.CacheMB<<20)
	}
	if c.Index {
		st, err := store.Open(g.ctx, g.DB)
		if err != nil {
			return err
		}
		defer st.Close()
		r.Store = st
	}

	report, err := r.Run(g.ctx, items)
	if err != nil {
		return err
	}
	if c.JSON {
		return g.printJSON(report)
	}
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(g.out, "ERR  %s: %v\n", res.URL, res.Err)
		}
	}
	fmt.Fprintf(g.out, "run %s: %d parsed, %d failed\n", report.RunID, report.Succeeded, report.Failed)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(g.out, "oimdp version %s (sqlite: %s, %s)\n", version, info.Package, info.DriverType)
	return nil
}

// run parses args and executes the selected command, writing results to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	k, err := kong.New(&cli,
		kong.Name("oimdp"),
		kong.Description("OpenITI mARkdown parser"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, configPaths...),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := k.Parse(args)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cli.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)

	cli.ctx = ctx
	cli.out = stdout
	return kctx.Run(&cli.Globals)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "oimdp: error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
