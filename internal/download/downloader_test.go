package download

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/progress"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

func TestFetchWithContentLength(t *testing.T) {
	data := testData(64 * 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}))
	defer server.Close()

	var display bytes.Buffer
	d := New(Options{Display: &display})
	dir := t.TempDir()

	saved, err := d.Fetch(context.Background(), server.URL+"/results/fox.png", Target{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fox.png"), saved)

	got, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, data, got, "content mismatch")

	out := display.String()
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, progress.FormatBytes(int64(len(data)))+"/"+progress.FormatBytes(int64(len(data))))
}

func TestFetchWithoutContentLength(t *testing.T) {
	data := testData(10 * 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data[:1024])
		w.(http.Flusher).Flush()
		w.Write(data[1024:])
	}))
	defer server.Close()

	var display bytes.Buffer
	d := New(Options{Display: &display})

	saved, err := d.Fetch(context.Background(), server.URL+"/out.svg", Target{Dir: t.TempDir()})
	require.NoError(t, err)

	info, err := os.Stat(saved)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
	assert.NotContains(t, display.String(), "%", "unknown length should not render a percentage")
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err := New(Options{}).Fetch(context.Background(), server.URL+"/missing.png", Target{Dir: dir})

	var statusErr *domain.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.NoFileExists(t, filepath.Join(dir, "missing.png"), "no file should be written on failure")
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(Options{}).Fetch(context.Background(), url+"/a.png", Target{Dir: t.TempDir()})
	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestFetchCreatesOutputDir(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	saved, err := New(Options{}).Fetch(context.Background(), server.URL+"/a.png", Target{Dir: dir, Filename: "custom.png"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.png"), saved)
}

func TestFetchDotSegmentURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	}))
	defer server.Close()

	dir := t.TempDir()
	saved, err := New(Options{}).Fetch(context.Background(), server.URL+"/results/.png", Target{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(saved))
	assert.Regexp(t, `^recraft_image_[0-9a-f]{16}\.png$`, filepath.Base(saved))
}

func TestFetchToBucket(t *testing.T) {
	data := testData(4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer server.Close()

	dir := t.TempDir()
	saved, err := New(Options{}).Fetch(context.Background(), server.URL+"/img/fox.png", Target{Dir: "file://" + dir})
	require.NoError(t, err)
	assert.Regexp(t, `^file://.*/fox\.png$`, saved)

	got, err := os.ReadFile(filepath.Join(dir, "fox.png"))
	require.NoError(t, err)
	assert.Equal(t, data, got, "object content mismatch")
}

func TestSaveInline(t *testing.T) {
	data := testData(300)
	res := domain.InlinePayload(map[string]any{
		"image": map[string]any{"b64_json": base64.StdEncoding.EncodeToString(data)},
	})

	dir := t.TempDir()
	saved, err := New(Options{}).SaveInline(context.Background(), res, Target{Dir: dir, Filename: "cat-removed-bg.png"})
	require.NoError(t, err)

	got, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, data, got, "decoded content mismatch")
}

func TestSaveInlineWithoutImage(t *testing.T) {
	res := domain.InlinePayload(map[string]any{"created": 1})
	_, err := New(Options{}).SaveInline(context.Background(), res, Target{Dir: t.TempDir(), Filename: "x.png"})
	assert.ErrorIs(t, err, ErrNoInlineImage)
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url        string
		want       string
		wantSuffix string
	}{
		{url: "https://host/path/image.png", want: "image.png"},
		{url: "https://host/path/image.webp?sig=abc", want: "image.webp"},
		{url: "https://host/path/.hidden.jpg", want: ".hidden.jpg"},
		{url: "https://host/path/image", wantSuffix: ".png"},
		{url: "https://host/", wantSuffix: ".png"},
		{url: "https://host/render?name=1.jpg", wantSuffix: ".jpg"},
		{url: "https://host/path/.png", wantSuffix: ".png"},
		{url: "https://host/path/.webp", wantSuffix: ".webp"},
		{url: "https://host/path/..", wantSuffix: ".png"},
		{url: "https://host/path/...", wantSuffix: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := FilenameFromURL(tt.url)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Regexp(t, `^`+namePrefix+`[0-9a-f]{16}\`+tt.wantSuffix+`$`, got)
		})
	}
}

func TestFilenameFromURLStable(t *testing.T) {
	a := FilenameFromURL("https://host/a/b")
	b := FilenameFromURL("https://host/a/b")
	c := FilenameFromURL("https://host/a/c")
	assert.Equal(t, a, b, "same URL should give the same name")
	assert.NotEqual(t, a, c, "different URLs should give different names")
}

func TestSuffixedName(t *testing.T) {
	tests := []struct {
		input, suffix, ext, want string
	}{
		{"/photos/cat.jpg", "-upscaled-generative", "", "cat-upscaled-generative.jpg"},
		{"cat.jpg", "-upscaled", "", "cat-upscaled.jpg"},
		{"dir/cat.jpg", "-vectorized", ".svg", "cat-vectorized.svg"},
		{"cat", "-removed-bg", ".png", "cat-removed-bg.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuffixedName(tt.input, tt.suffix, tt.ext), "SuffixedName(%q, %q, %q)", tt.input, tt.suffix, tt.ext)
	}
}
