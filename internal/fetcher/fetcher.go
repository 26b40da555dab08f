// Package fetcher retrieves remote input datasets ahead of a run. A dataset
// referenced by URL is downloaded once into the work directory; everything
// after that operates on the local copy.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = (*FTPFetcher)(nil)
)

// IsRemote reports whether the location names a remote dataset rather than a
// local file path.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// ForURL returns the fetcher matching the URL scheme.
func ForURL(rawURL string) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "parse url")
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTPFetcher(HTTPOptions{}), nil
	case "ftp":
		return NewFTPFetcher(FTPOptions{}), nil
	}
	return nil, eris.Errorf("unsupported scheme %q in %s", u.Scheme, rawURL)
}

// Retrieve downloads rawURL into destDir and returns the local path. The
// filename is taken from the last segment of the URL path.
func Retrieve(ctx context.Context, rawURL, destDir string) (string, error) {
	f, err := ForURL(rawURL)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "parse url")
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", eris.Errorf("no filename in %s", rawURL)
	}

	dest := filepath.Join(destDir, name)
	n, err := f.DownloadToFile(ctx, rawURL, dest)
	if err != nil {
		return "", err
	}

	zap.L().Info("downloaded remote dataset",
		zap.String("url", rawURL),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}
