package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Fetcher retrieves raw archive bytes by path relative to the data
// root. Decompression happens in the loader, keyed on the path suffix.
type Fetcher interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// HTTPFetcher reads the published archive from a remote site root.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

func NewHTTPFetcher(baseURL string) (*HTTPFetcher, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got %q", u.Scheme)
	}
	return &HTTPFetcher{base: u, client: http.DefaultClient}, nil
}

func (f *HTTPFetcher) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

// DirFetcher reads the archive from a local directory, for offline use
// and tests.
type DirFetcher struct {
	dir string
}

func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{dir: dir}
}

func (f *DirFetcher) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(f.dir, filepath.FromSlash(path)))
}

// decodeBody wraps a raw payload with the decoder its path declares.
// Unrecognized suffixes fail with ErrUnsupportedEncoding so the caller
// can tell a capability gap from a network failure.
func decodeBody(rc io.ReadCloser, path string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &gzipReadCloser{zr: zr, raw: rc}, nil
	case strings.HasSuffix(path, ".ndjson"), strings.HasSuffix(path, ".json"):
		return rc, nil
	default:
		rc.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, path)
	}
}

type gzipReadCloser struct {
	zr  *gzip.Reader
	raw io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	rerr := g.raw.Close()
	if zerr != nil {
		return zerr
	}
	return rerr
}
