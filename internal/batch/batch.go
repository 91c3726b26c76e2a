// Package batch parses every text listed in an OpenITI release metadata
// file with a bounded worker pool.
package batch

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/OpenITI/oimdp/core/cache"
	"github.com/OpenITI/oimdp/core/errors"
	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/parser"
	"github.com/OpenITI/oimdp/core/store"
	"github.com/OpenITI/oimdp/internal/logging"
	"github.com/OpenITI/oimdp/internal/source"
)

// urlColumn is the zero-based column of the text URL in release metadata.
const urlColumn = 7

// Item is one text to parse.
type Item struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// Result is the outcome of one item. Err is nil on success.
type Result struct {
	Item
	Name       string        `json:"name"`
	Metadata   int           `json:"metadata"`
	Content    int           `json:"content"`
	DocumentID string        `json:"document_id,omitempty"`
	Cached     bool          `json:"cached,omitempty"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
	Error      string        `json:"error,omitempty"`
}

// Report collects the results of a run in item order.
type Report struct {
	RunID     string   `json:"run_id"`
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

// ReadRelease returns the items of a tab-separated release metadata file.
// Only rows whose URL column ends in "mARkdown" or "completed" are kept;
// rows with too few columns are skipped.
func ReadRelease(r io.Reader) ([]Item, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var items []Item
	for sc.Scan() {
		cols := strings.Split(strings.TrimSuffix(sc.Text(), "\r"), "\t")
		if len(cols) <= urlColumn {
			continue
		}
		url := strings.TrimSpace(cols[urlColumn])
		if strings.HasSuffix(url, "mARkdown") || strings.HasSuffix(url, "completed") {
			items = append(items, Item{Index: len(items), URL: url})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewIO("read", "release metadata", err)
	}
	return items, nil
}

// Runner parses items concurrently.
type Runner struct {
	// Workers bounds concurrent fetch and parse. Zero means GOMAXPROCS.
	Workers int

	// Source configures loading each URL.
	Source source.Options

	// Parse options applied to every document.
	Parse []parser.Option

	// Store, when set, receives every parsed document.
	Store *store.Store

	// Cache, when set, reuses documents parsed from identical text.
	Cache *cache.DocumentCache

	mu sync.Mutex
}

// Run processes all items. A failing item is recorded in its Result and
// never stops the others. Run returns an error only if ctx is cancelled.
func (r *Runner) Run(ctx context.Context, items []Item) (*Report, error) {
	report := &Report{
		RunID:   uuid.New().String(),
		Results: make([]Result, len(items)),
	}
	ctx = logging.WithRunID(ctx, report.RunID)

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, it := range items {
		if gctx.Err() != nil {
			break
		}
		i, it := i, it
		g.Go(func() error {
			res := r.one(gctx, it)
			report.Results[i] = res
			logging.BatchItem(gctx, it.Index+1, len(items), it.URL, res.Err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	for _, res := range report.Results {
		if res.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	return report, nil
}

func (r *Runner) one(ctx context.Context, it Item) Result {
	res := Result{Item: it, Name: source.Name(it.URL)}
	start := time.Now()

	fail := func(err error) Result {
		res.Err = err
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}

	text, err := source.Load(ctx, it.URL, r.Source)
	if err != nil {
		return fail(err)
	}
	doc, hit, err := r.parse(text)
	if err != nil {
		logging.ParseFailure(ctx, it.URL, err, "line", errors.LineOf(err))
		return fail(err)
	}
	res.Cached = hit
	res.Metadata = len(doc.Metadata)
	res.Content = len(doc.Content)

	if r.Store != nil {
		id, err := r.save(ctx, res.Name, doc)
		if err != nil {
			return fail(err)
		}
		res.DocumentID = id
	}
	res.Duration = time.Since(start)
	logging.DocumentParsed(ctx, it.URL, res.Metadata, res.Content, res.Duration)
	return res
}

func (r *Runner) parse(text string) (*ir.Document, bool, error) {
	if r.Cache != nil {
		return r.Cache.Parse(text, r.Parse...)
	}
	doc, err := parser.Parse(text, r.Parse...)
	return doc, false, err
}

// save serializes writers; SQLite allows one at a time.
func (r *Runner) save(ctx context.Context, name string, doc *ir.Document) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, created, err := r.Store.Save(ctx, name, doc)
	if err != nil {
		return "", err
	}
	if created {
		logging.StoreEvent(ctx, "save", rec.ID, "name", name, "nodes", rec.Nodes)
	}
	return rec.ID, nil
}
