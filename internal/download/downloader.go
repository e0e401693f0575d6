// Package download saves API results to local files or object storage.
//
// Remote results are streamed with a byte counter that reports real
// progress (bytes received over Content-Length). When the server sends no
// Content-Length the counter switches to an indeterminate spinner.
//
// A Target whose Dir is a bucket URL (mem://, file:///path) is written
// through gocloud.dev/blob instead of the local filesystem.
package download

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/progress"
)

const (
	defaultExt   = ".png"
	namePrefix   = "recraft_image_"
	counterLabel = "Downloading"
)

// ErrNoInlineImage is returned by SaveInline when the payload carries no image data
var ErrNoInlineImage = errors.New("download: payload has no inline image data")

// Target describes where a result is saved
type Target struct {
	// Dir is a local directory or a bucket URL. Empty means the working directory.
	Dir string

	// Filename overrides the name derived from the URL.
	Filename string
}

// Options configures the downloader
type Options struct {
	// HTTPClient performs downloads.
	// Default: http.DefaultClient
	HTTPClient *http.Client

	// Display receives the byte counter. Nil disables it.
	Display io.Writer

	Logger *slog.Logger
}

// Downloader fetches result URLs into a Target
type Downloader struct {
	httpClient *http.Client
	display    io.Writer
	logger     *slog.Logger
}

// New creates a downloader
func New(opts Options) *Downloader {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Downloader{
		httpClient: opts.HTTPClient,
		display:    opts.Display,
		logger:     opts.Logger,
	}
}

// Fetch streams rawURL into target and returns the saved location
func (d *Downloader) Fetch(ctx context.Context, rawURL string, target Target) (string, error) {
	name := target.Filename
	if name == "" {
		name = FilenameFromURL(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.UnexpectedError{Err: fmt.Errorf("create request: %w", err)}
	}

	d.logger.Info("downloading result", "url", rawURL, "name", name)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("download request failed", "url", rawURL, "error", err)
		return "", &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		d.logger.Error("download error", "url", rawURL, "status", resp.StatusCode)
		return "", &domain.HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	counter := progress.NewCounter(d.display, counterLabel, resp.ContentLength)
	defer counter.Done()

	src := io.TeeReader(resp.Body, counter)
	saved, err := d.write(ctx, target, name, resp.Header.Get("Content-Type"), src, resp.ContentLength)
	if err != nil {
		return "", err
	}

	d.logger.Info("download complete", "path", saved, "bytes", counter.Count())
	return saved, nil
}

// SaveInline decodes the base64 image carried by res into target.
// target.Filename is required.
func (d *Downloader) SaveInline(ctx context.Context, res *domain.Result, target Target) (string, error) {
	encoded, ok := res.InlineImage()
	if !ok {
		return "", ErrNoInlineImage
	}
	if target.Filename == "" {
		return "", errors.New("download: inline save needs a filename")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return "", &domain.UnexpectedError{Err: fmt.Errorf("decode inline image: %w", err)}
		}
	}

	contentType := mime.TypeByExtension(filepath.Ext(target.Filename))
	return d.write(ctx, target, target.Filename, contentType, bytes.NewReader(data), int64(len(data)))
}

// write copies src into target/name. size < 0 means unknown.
func (d *Downloader) write(ctx context.Context, target Target, name, contentType string, src io.Reader, size int64) (string, error) {
	if isBucketURL(target.Dir) {
		return d.writeBucket(ctx, target.Dir, name, contentType, src, size)
	}
	return d.writeFile(target.Dir, name, src, size)
}

func (d *Downloader) writeFile(dir, name string, src io.Reader, size int64) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &domain.UnexpectedError{Err: err}
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &domain.UnexpectedError{Err: fmt.Errorf("create output directory: %w", err)}
	}

	outPath := filepath.Join(dir, name)
	f, err := os.Create(outPath)
	if err != nil {
		return "", &domain.UnexpectedError{Err: fmt.Errorf("create %s: %w", outPath, err)}
	}

	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	if err := checkCopy(n, size, copyErr, closeErr); err != nil {
		os.Remove(outPath)
		return "", err
	}
	return outPath, nil
}

func (d *Downloader) writeBucket(ctx context.Context, bucketURL, name, contentType string, src io.Reader, size int64) (string, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return "", &domain.UnexpectedError{Err: fmt.Errorf("open bucket: %w", err)}
	}
	defer bucket.Close()

	w, err := bucket.NewWriter(ctx, name, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", &domain.UnexpectedError{Err: fmt.Errorf("open object %s: %w", name, err)}
	}

	n, copyErr := io.Copy(w, src)
	closeErr := w.Close()

	if err := checkCopy(n, size, copyErr, closeErr); err != nil {
		bucket.Delete(ctx, name)
		return "", err
	}
	return objectLocation(bucketURL, name), nil
}

// checkCopy classifies the outcome of streaming a body into a destination
func checkCopy(n, size int64, copyErr, closeErr error) error {
	if copyErr != nil {
		var pathErr *os.PathError
		if errors.As(copyErr, &pathErr) {
			return &domain.UnexpectedError{Err: fmt.Errorf("write: %w", copyErr)}
		}
		return &domain.TransportError{Err: copyErr}
	}
	if closeErr != nil {
		return &domain.UnexpectedError{Err: fmt.Errorf("close: %w", closeErr)}
	}
	if size >= 0 && n != size {
		return &domain.TransportError{Err: fmt.Errorf("size mismatch: expected %d, got %d", size, n)}
	}
	return nil
}

func isBucketURL(dir string) bool {
	return strings.Contains(dir, "://")
}

func objectLocation(bucketURL, name string) string {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return bucketURL + "/" + name
	}
	u.Path = path.Join("/", u.Path, name)
	return u.String()
}

// FilenameFromURL derives a local filename from a result URL. The last path
// segment is used when it has both a stem and an extension. Otherwise the
// name is built from a hash of the URL plus an image extension guessed from
// the URL, or .png.
func FilenameFromURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); usableName(name) {
			return name
		}
	}

	ext := defaultExt
	guess := strings.ToLower(path.Ext(strings.SplitN(rawURL, "#", 2)[0]))
	if t := mime.TypeByExtension(guess); strings.HasPrefix(t, "image/") {
		ext = guess
	}
	return namePrefix + urlHash(rawURL) + ext
}

// usableName reports whether a URL path segment can be saved as is.
// Dot files such as ".png" have no extension.
func usableName(name string) bool {
	if name == "/" || name == "." || name == ".." {
		return false
	}
	stem := strings.TrimLeft(name, ".")
	return stem != "" && path.Ext(stem) != ""
}

func urlHash(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}

// SuffixedName returns the base name of input with suffix inserted before
// its extension. A non-empty ext replaces the input's extension.
func SuffixedName(input, suffix, ext string) string {
	base := filepath.Base(input)
	inputExt := filepath.Ext(base)
	if ext == "" {
		ext = inputExt
	}
	return strings.TrimSuffix(base, inputExt) + suffix + ext
}
