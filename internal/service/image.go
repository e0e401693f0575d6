package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/download"
	"github.com/mmcdole/recraft/internal/recraft"
	"github.com/mmcdole/recraft/internal/ui"
)

// Output name suffixes per operation
const (
	suffixRemovedBg  = "-removed-bg"
	suffixVectorized = "-vectorized"
	extPNG           = ".png"
	extSVG           = ".svg"
)

// Executor performs the guarded API calls. *recraft.Client implements it.
type Executor interface {
	Generate(ctx context.Context, prompt, style string, call recraft.CallOptions) (*domain.Result, error)
	RemoveBackground(ctx context.Context, filePath string, call recraft.CallOptions) (*domain.Result, error)
	Vectorize(ctx context.Context, filePath string, call recraft.CallOptions) (*domain.Result, error)
	Upscale(ctx context.Context, filePath string, mode domain.UpscaleMode, call recraft.CallOptions) (*domain.Result, error)
}

// Downloader saves results. *download.Downloader implements it.
type Downloader interface {
	Fetch(ctx context.Context, rawURL string, target download.Target) (string, error)
	SaveInline(ctx context.Context, res *domain.Result, target download.Target) (string, error)
}

// Request holds the per-command options shared by every operation
type Request struct {
	Timeout        time.Duration
	ResponseFormat domain.ResponseFormat
	Download       bool
	OutputDir      string
}

func (r Request) call() recraft.CallOptions {
	return recraft.CallOptions{ResponseFormat: r.ResponseFormat, Timeout: r.Timeout}
}

// Outcome is what an operation produced
type Outcome struct {
	Result *domain.Result

	// SavedPath is where the result was written; empty when nothing was saved.
	SavedPath string

	// DownloadErr is set when the API call succeeded but saving failed.
	DownloadErr error
}

// ImageService runs one command: call the API, report, then save the result
type ImageService struct {
	exec   Executor
	dl     Downloader
	out    io.Writer
	logger *slog.Logger
}

// NewImageService creates a new image service
func NewImageService(exec Executor, dl Downloader, out io.Writer, logger *slog.Logger) *ImageService {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{exec: exec, dl: dl, out: out, logger: logger}
}

// Generate creates an image from prompt and downloads it under the name
// derived from its URL.
func (s *ImageService) Generate(ctx context.Context, prompt, style string, req Request) (*Outcome, error) {
	res, err := s.exec.Generate(ctx, prompt, style, req.call())
	if err != nil {
		return nil, err
	}
	s.report(res, "Image generated successfully")
	return s.deliver(ctx, res, req, "", ""), nil
}

// RemoveBackground saves the result as <base>-removed-bg<ext>, or
// <base>-removed-bg.png for inline results.
func (s *ImageService) RemoveBackground(ctx context.Context, filePath string, req Request) (*Outcome, error) {
	res, err := s.exec.RemoveBackground(ctx, filePath, req.call())
	if err != nil {
		return nil, err
	}
	s.report(res, "Background removed successfully")
	return s.deliver(ctx, res, req,
		download.SuffixedName(filePath, suffixRemovedBg, ""),
		download.SuffixedName(filePath, suffixRemovedBg, extPNG),
	), nil
}

// Vectorize saves the result as <base>-vectorized.svg
func (s *ImageService) Vectorize(ctx context.Context, filePath string, req Request) (*Outcome, error) {
	res, err := s.exec.Vectorize(ctx, filePath, req.call())
	if err != nil {
		return nil, err
	}
	s.report(res, "Image vectorized successfully")
	name := download.SuffixedName(filePath, suffixVectorized, extSVG)
	return s.deliver(ctx, res, req, name, name), nil
}

// Upscale saves the result as <base>-upscaled<ext> or
// <base>-upscaled-generative<ext> depending on mode. An unknown mode
// returns domain.ErrInvalidMode without a request.
func (s *ImageService) Upscale(ctx context.Context, filePath string, mode domain.UpscaleMode, req Request) (*Outcome, error) {
	res, err := s.exec.Upscale(ctx, filePath, mode, req.call())
	if err != nil {
		return nil, err
	}
	s.report(res, fmt.Sprintf("Image %s upscaled successfully", mode))
	return s.deliver(ctx, res, req,
		download.SuffixedName(filePath, mode.FileSuffix(), ""),
		download.SuffixedName(filePath, mode.FileSuffix(), extPNG),
	), nil
}

func (s *ImageService) report(res *domain.Result, msg string) {
	if res.IsURL() {
		fmt.Fprintln(s.out, ui.Success(fmt.Sprintf("✓ %s: %s", msg, res.URL)))
		return
	}
	fmt.Fprintln(s.out, ui.Success("✓ "+msg+"!"))
}

// deliver saves res when downloads are enabled. urlName names URL results
// (empty derives the name from the URL); inlineName names decoded inline
// results (empty prints the payload instead).
func (s *ImageService) deliver(ctx context.Context, res *domain.Result, req Request, urlName, inlineName string) *Outcome {
	outcome := &Outcome{Result: res}

	if !res.IsURL() {
		if _, ok := res.InlineImage(); !ok || !req.Download || inlineName == "" {
			s.printPayload(res)
			return outcome
		}
		target := download.Target{Dir: req.OutputDir, Filename: inlineName}
		outcome.SavedPath, outcome.DownloadErr = s.dl.SaveInline(ctx, res, target)
		s.reportSaved(outcome)
		return outcome
	}

	if !req.Download {
		return outcome
	}

	fmt.Fprintln(s.out, ui.AccentStyle.Render("Downloading image from: "+res.URL))
	target := download.Target{Dir: req.OutputDir, Filename: urlName}
	outcome.SavedPath, outcome.DownloadErr = s.dl.Fetch(ctx, res.URL, target)
	s.reportSaved(outcome)
	return outcome
}

func (s *ImageService) reportSaved(o *Outcome) {
	if o.DownloadErr != nil {
		s.logger.Error("saving result failed", "error", o.DownloadErr)
		fmt.Fprintln(s.out, ui.Error("✗ Error downloading image: "+domain.Describe(o.DownloadErr)))
		return
	}
	fmt.Fprintln(s.out, ui.Success("✓ Image downloaded successfully: "+o.SavedPath))
}

func (s *ImageService) printPayload(res *domain.Result) {
	data, err := json.Marshal(res.Payload)
	if err != nil {
		data = []byte(fmt.Sprint(res.Payload))
	}
	fmt.Fprintln(s.out, ui.AccentStyle.Render("Result: "+string(data)))
}
