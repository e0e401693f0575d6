package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/service"
	"github.com/mmcdole/recraft/internal/ui"
)

// processCommand describes a single-file command with a response format
type processCommand struct {
	name    string
	usage   string
	title   string
	failure string
	run     func(images *service.ImageService, ctx context.Context, filePath string, req service.Request) (*service.Outcome, error)
}

var removeBgCommand = processCommand{
	name: "remove-bg",
	usage: `Usage: recraft remove-bg FILE [options]

Remove background from an image.

Options:`,
	title:   "Background Removal",
	failure: "Background removal failed",
	run:     (*service.ImageService).RemoveBackground,
}

var vectorizeCommand = processCommand{
	name: "vectorize",
	usage: `Usage: recraft vectorize FILE [options]

Convert a raster image to SVG.

Options:`,
	title:   "Vectorization",
	failure: "Vectorization failed",
	run:     (*service.ImageService).Vectorize,
}

func runRemoveBg(args []string, e *env) int {
	return runProcess(removeBgCommand, args, e)
}

func runVectorize(args []string, e *env) int {
	return runProcess(vectorizeCommand, args, e)
}

func runProcess(cmd processCommand, args []string, e *env) int {
	cfg, ok := loadConfig(e)
	if !ok {
		return ExitFailure
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	format := fs.String("response-format", string(domain.FormatURL), "Format of the response (url or base64)")
	common := addCommonFlags(fs, cfg)
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, cmd.usage)
		fs.PrintDefaults()
	}

	positional, err := parseArgs(fs, args)
	if err != nil {
		return parseExit(err)
	}
	if len(positional) != 1 {
		fs.Usage()
		return ExitInvalidArgs
	}
	responseFormat, err := domain.ParseResponseFormat(*format)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	filePath := positional[0]
	if !requireFile(e, filePath) {
		return ExitInvalidArgs
	}

	a, err := newApp(cfg, e)
	if err != nil {
		fmt.Fprintln(e.stderr, ui.Error("Error: "+err.Error()))
		return ExitFailure
	}
	defer a.Close()

	banner(e, cmd.title)

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := cmd.run(a.images, ctx, filePath, common.request(responseFormat))
	if err != nil {
		return fail(e, cmd.failure, err)
	}
	return finish(outcome)
}
