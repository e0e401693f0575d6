package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/download"
	"github.com/mmcdole/recraft/internal/recraft"
)

var imageBytes = []byte("\x89PNG fake image body")

// fakeAPI serves the API endpoints and the result files
type fakeAPI struct {
	server   *httptest.Server
	requests atomic.Int32
	inline   bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		w.Write(imageBytes)
	})
	mux.HandleFunc("/v1/images/", func(w http.ResponseWriter, r *http.Request) {
		api.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if api.inline {
			w.Write([]byte(`{"image":{"b64_json":"` + base64.StdEncoding.EncodeToString(imageBytes) + `"}}`))
			return
		}
		if strings.HasSuffix(r.URL.Path, "/generations") {
			w.Write([]byte(`{"data":[{"url":"` + api.server.URL + `/files/gen.webp"}]}`))
			return
		}
		w.Write([]byte(`{"image":{"url":"` + api.server.URL + `/files/y.png"}}`))
	})
	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func newService(t *testing.T, api *fakeAPI) (*ImageService, *bytes.Buffer) {
	t.Helper()
	client := recraft.New(recraft.Options{
		BaseURL: api.server.URL + "/v1",
		Tokens:  recraft.StaticToken("test-token"),
	})
	var out bytes.Buffer
	return NewImageService(client, download.New(download.Options{}), &out, nil), &out
}

func writeInput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("input"), 0644))
	return path
}

func TestUpscaleGenerativeDownloadsSuffixedFile(t *testing.T) {
	api := newFakeAPI(t)
	svc, out := newService(t, api)
	input := writeInput(t, "photo.jpg")
	outDir := t.TempDir()

	outcome, err := svc.Upscale(context.Background(), input, domain.ModeGenerative, Request{
		Download:  true,
		OutputDir: outDir,
	})
	require.NoError(t, err)

	saved := filepath.Join(outDir, "photo-upscaled-generative.jpg")
	want := &Outcome{
		Result:    domain.URLResult(api.server.URL + "/files/y.png"),
		SavedPath: saved,
	}
	if diff := cmp.Diff(want, outcome, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}

	got, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, imageBytes, got, "downloaded content mismatch")
	assert.Contains(t, out.String(), "Image generative upscaled successfully")
}

func TestUpscaleClarityName(t *testing.T) {
	api := newFakeAPI(t)
	svc, _ := newService(t, api)
	outDir := t.TempDir()

	outcome, err := svc.Upscale(context.Background(), writeInput(t, "cat.jpeg"), domain.ModeClarity, Request{
		Download:  true,
		OutputDir: outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, "cat-upscaled.jpeg", filepath.Base(outcome.SavedPath))
}

func TestUpscaleInvalidMode(t *testing.T) {
	api := newFakeAPI(t)
	svc, _ := newService(t, api)

	_, err := svc.Upscale(context.Background(), writeInput(t, "cat.png"), domain.UpscaleMode("turbo"), Request{Download: true})
	require.ErrorIs(t, err, domain.ErrInvalidMode)
	assert.Zero(t, api.requests.Load(), "requests sent for an invalid mode")
}

func TestGenerateUsesURLName(t *testing.T) {
	api := newFakeAPI(t)
	svc, _ := newService(t, api)
	outDir := t.TempDir()

	outcome, err := svc.Generate(context.Background(), "a red fox", "", Request{Download: true, OutputDir: outDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "gen.webp"), outcome.SavedPath)
}

func TestNoDownload(t *testing.T) {
	api := newFakeAPI(t)
	svc, _ := newService(t, api)
	outDir := t.TempDir()

	outcome, err := svc.Vectorize(context.Background(), writeInput(t, "logo.png"), Request{OutputDir: outDir})
	require.NoError(t, err)

	want := &Outcome{Result: domain.URLResult(api.server.URL + "/files/y.png")}
	if diff := cmp.Diff(want, outcome, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "output dir should stay empty")
}

func TestVectorizeName(t *testing.T) {
	api := newFakeAPI(t)
	svc, _ := newService(t, api)
	outDir := t.TempDir()

	outcome, err := svc.Vectorize(context.Background(), writeInput(t, "logo.png"), Request{Download: true, OutputDir: outDir})
	require.NoError(t, err)
	assert.Equal(t, "logo-vectorized.svg", filepath.Base(outcome.SavedPath))
}

func TestRemoveBackgroundInline(t *testing.T) {
	api := newFakeAPI(t)
	api.inline = true
	svc, _ := newService(t, api)
	outDir := t.TempDir()

	outcome, err := svc.RemoveBackground(context.Background(), writeInput(t, "dog.jpg"), Request{
		ResponseFormat: domain.FormatBase64,
		Download:       true,
		OutputDir:      outDir,
	})
	require.NoError(t, err)
	require.False(t, outcome.Result.IsURL(), "expected inline result")
	require.NoError(t, outcome.DownloadErr)

	want := filepath.Join(outDir, "dog-removed-bg.png")
	assert.Equal(t, want, outcome.SavedPath)
	got, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, imageBytes, got, "decoded content mismatch")
}

func TestRemoveBackgroundInlinePrintedWithoutDownload(t *testing.T) {
	api := newFakeAPI(t)
	api.inline = true
	svc, out := newService(t, api)

	outcome, err := svc.RemoveBackground(context.Background(), writeInput(t, "dog.jpg"), Request{
		ResponseFormat: domain.FormatBase64,
	})
	require.NoError(t, err)
	assert.Empty(t, outcome.SavedPath)
	assert.Contains(t, out.String(), "Result: ")
	assert.Contains(t, out.String(), "b64_json")
}

func TestDownloadFailureIsReported(t *testing.T) {
	api := newFakeAPI(t)
	svc, out := newService(t, api)

	// A regular file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	outcome, err := svc.Upscale(context.Background(), writeInput(t, "a.png"), domain.ModeClarity, Request{
		Download:  true,
		OutputDir: blocker,
	})
	require.NoError(t, err)
	assert.Error(t, outcome.DownloadErr, "expected a download error")
	assert.Empty(t, outcome.SavedPath)
	assert.Contains(t, out.String(), "Error downloading image")
}

func TestAPIErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := recraft.New(recraft.Options{BaseURL: server.URL, Tokens: recraft.StaticToken("bad")})
	svc := NewImageService(client, download.New(download.Options{}), nil, nil)

	_, err := svc.Generate(context.Background(), "x", "any", Request{Download: true})
	var statusErr *domain.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}
