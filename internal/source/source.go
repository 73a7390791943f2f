// Package source loads documents from local files and http(s) URLs.
//
// Remote fetches are rate limited per host and retried with exponential
// backoff on transient failures. Text is decoded to UTF-8 using the charset
// from the Content-Type header; local files that are not valid UTF-8 are
// read as windows-1252. Offsets reported by the extractor are byte offsets
// into the decoded text, so no Unicode normalization is applied here.
package source

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/sells-group/datextract/internal/model"
)

// ErrTooLarge is returned when a document exceeds Options.MaxBytes.
var ErrTooLarge = eris.New("source: document too large")

// Options configures a Loader.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	MaxBytes   int64
	RateLimit  float64 // requests per second per host; 0 disables limiting
	Backoff    Backoff
	Client     *http.Client
}

// Loader reads documents. It is safe for concurrent use.
type Loader struct {
	client *http.Client
	opts   Options

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Loader, filling zero options with defaults.
func New(opts Options) *Loader {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 20 << 20
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "datextract/1.0"
	}
	if opts.Backoff == (Backoff{}) {
		opts.Backoff = DefaultBackoff()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Loader{
		client:   client,
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// IsURL reports whether ref names an http(s) resource.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads ref as a URL when it looks like one and as a file path
// otherwise.
func (l *Loader) Load(ctx context.Context, ref string) (model.Document, error) {
	if IsURL(ref) {
		return l.Fetch(ctx, ref)
	}
	return l.ReadFile(ref)
}

// ReadFile loads a local file.
func (l *Loader) ReadFile(path string) (model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "source: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return l.ReadFrom(path, f, "")
}

// ReadFrom loads a document from r. contentType may be empty.
func (l *Loader) ReadFrom(name string, r io.Reader, contentType string) (model.Document, error) {
	raw, err := readCapped(r, l.opts.MaxBytes)
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "source: read %s", name)
	}
	text, err := decode(raw, contentType)
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "source: decode %s", name)
	}
	return model.Document{ID: uuid.New().String(), Source: name, Text: text}, nil
}

// Fetch downloads rawURL.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (model.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "source: parse url %s", rawURL)
	}
	lim := l.limiterFor(u.Host)

	doc, err := retry(ctx, l.opts.MaxRetries, l.opts.Backoff, rawURL, func(ctx context.Context) (model.Document, error) {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return model.Document{}, eris.Wrap(err, "source: rate limiter wait")
			}
		}
		return l.fetchOnce(ctx, rawURL)
	})
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "source: fetch %s", rawURL)
	}

	zap.L().Debug("source: fetched document",
		zap.String("url", rawURL),
		zap.Int("bytes", len(doc.Text)),
	)
	return doc, nil
}

func (l *Loader) fetchOnce(ctx context.Context, rawURL string) (model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.Document{}, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", l.opts.UserAgent)
	req.Header.Set("Accept", "text/plain, text/*;q=0.9, */*;q=0.1")

	resp, err := l.client.Do(req)
	if err != nil {
		return model.Document{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return model.Document{}, &statusError{code: resp.StatusCode, url: rawURL}
	}
	if resp.ContentLength > l.opts.MaxBytes {
		return model.Document{}, ErrTooLarge
	}
	return l.ReadFrom(rawURL, resp.Body, resp.Header.Get("Content-Type"))
}

func (l *Loader) limiterFor(host string) *rate.Limiter {
	if l.opts.RateLimit <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.opts.RateLimit), max(1, int(l.opts.RateLimit)))
		l.limiters[host] = lim
	}
	return lim
}

func readCapped(r io.Reader, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, ErrTooLarge
	}
	return raw, nil
}

// decode converts raw bytes to UTF-8 text. The charset parameter of
// contentType wins; otherwise valid UTF-8 is kept and anything else is read
// as windows-1252. A leading byte order mark is dropped.
func decode(raw []byte, contentType string) (string, error) {
	enc, err := encodingFor(contentType)
	if err != nil {
		return "", err
	}
	if enc == nil {
		raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
		if utf8.Valid(raw) {
			return string(raw), nil
		}
		enc, _ = htmlindex.Get("windows-1252")
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", eris.Wrap(err, "transcode")
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}

// encodingFor returns nil when contentType names no charset or names UTF-8.
func encodingFor(contentType string) (encoding.Encoding, error) {
	if contentType == "" {
		return nil, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil
	}
	cs := params["charset"]
	if cs == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, eris.Wrapf(err, "unknown charset %q", cs)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}
