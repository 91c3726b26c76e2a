// Package source loads mARkdown text from local files and URLs.
// Files ending in .xz or .gz are decompressed on the fly.
package source

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/unicode/norm"

	"github.com/OpenITI/oimdp/core/errors"
	"github.com/OpenITI/oimdp/internal/validation"
)

const bom = "\uFEFF"

// DefaultTimeout bounds a single HTTP fetch when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options control how text is loaded.
type Options struct {
	// NFC normalizes the text to Unicode Normalization Form C.
	NFC bool

	// Timeout for HTTP fetches. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client used for http and https locations.
	HTTPClient *http.Client
}

// HTTPError is returned when a server answers with a 4xx or 5xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

// IsNotFound reports whether the server answered 404.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// scheme returns the URL scheme of location, or "" when location has none.
func scheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return ""
	}
	for j, r := range location[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return location[:i]
}

// Load reads the text at location, which is a file path, "-" for stdin,
// or an http(s) URL. Any other URL scheme returns *errors.UnsupportedError.
func Load(ctx context.Context, location string, opts Options) (string, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch {
	case location == "-":
		rc = io.NopCloser(os.Stdin)
	case IsRemote(location):
		rc, err = fetch(ctx, location, opts)
	case scheme(location) != "":
		return "", errors.NewUnsupported("location scheme "+strconv.Quote(scheme(location)),
			"only files, - and http(s) URLs can be loaded")
	default:
		if err := validation.ValidatePath(location); err != nil {
			return "", errors.NewIO("open", location, err)
		}
		rc, err = os.Open(location)
		if err != nil {
			return "", errors.NewIO("open", location, err)
		}
	}
	if err != nil {
		return "", err
	}
	defer rc.Close()

	r, err := decompress(rc, compressionOf(location))
	if err != nil {
		return "", errors.NewIO("decompress", location, err)
	}
	data, err := io.ReadAll(io.LimitReader(r, validation.MaxFileSize+1))
	if err != nil {
		return "", errors.NewIO("read", location, err)
	}
	if len(data) > validation.MaxFileSize {
		return "", errors.NewIO("read", location, validation.ErrTooLarge)
	}
	return Decode(data, opts)
}

// Decode turns raw bytes into parser input: it rejects binary data and
// invalid UTF-8, drops a leading byte order mark and optionally applies NFC.
func Decode(data []byte, opts Options) (string, error) {
	data = bytes.TrimPrefix(data, []byte(bom))
	if validation.LooksBinary(data) {
		return "", &errors.ValidationError{Field: "text", Message: "input looks like binary data", Err: validation.ErrBinary}
	}
	if !utf8.Valid(data) {
		return "", errors.NewValidation("text", "input is not valid UTF-8")
	}
	if opts.NFC {
		data = norm.NFC.Bytes(data)
	}
	return string(data), nil
}

// Name returns the last path element of location without compression
// suffixes, suitable as a document name.
func Name(location string) string {
	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			location = u.Path
		}
	}
	name := location
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".xz")
	name = strings.TrimSuffix(name, ".gz")
	return name
}

func fetch(ctx context.Context, location string, opts Options) (io.ReadCloser, error) {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		cancel()
		return nil, errors.NewValidation("url", err.Error())
	}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, errors.NewIO("fetch", location, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		cancel()
		return nil, &HTTPError{URL: location, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return &cancelCloser{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelCloser releases the request context once the body is closed.
type cancelCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

type compression int

const (
	compressionNone compression = iota
	compressionXZ
	compressionGzip
)

func compressionOf(location string) compression {
	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			location = u.Path
		}
	}
	switch {
	case strings.HasSuffix(location, ".xz"):
		return compressionXZ
	case strings.HasSuffix(location, ".gz"):
		return compressionGzip
	}
	return compressionNone
}

func decompress(r io.Reader, c compression) (io.Reader, error) {
	switch c {
	case compressionXZ:
		return xz.NewReader(r)
	case compressionGzip:
		return gzip.NewReader(r)
	}
	return r, nil
}
