package main

import (
	"flag"
	"fmt"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/prompt"
	"github.com/mmcdole/recraft/internal/ui"
)

// runUpscale upscales an image. Without --mode the user chooses, and the
// generative mode must be confirmed.
func runUpscale(args []string, e *env) int {
	cfg, ok := loadConfig(e)
	if !ok {
		return ExitFailure
	}

	fs := flag.NewFlagSet("upscale", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	mode := fs.String("mode", "", "Upscaling mode (clarity or generative)")
	common := addCommonFlags(fs, cfg)
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, `Usage: recraft upscale FILE [options]

Upscale an image with optional mode selection.

Options:`)
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

	banner(e, "Image Upscaling")

	if *mode == "" {
		chosen, err := chooseUpscaleMode(e, a.prompter)
		if err != nil {
			return fail(e, "Upscaling failed", err)
		}
		*mode = string(chosen)
	}

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := a.images.Upscale(ctx, filePath, domain.UpscaleMode(*mode), common.request(domain.FormatDefault))
	if err != nil {
		return fail(e, "Upscaling failed", err)
	}
	return finish(outcome)
}

func chooseUpscaleMode(e *env, p *prompt.Prompter) (domain.UpscaleMode, error) {
	fmt.Fprintln(e.stdout, "\nChoose an upscaling method:")
	fmt.Fprintln(e.stdout, ui.SuccessStyle.Render("1. Clarity Upscale ")+"(Recommended, lower cost)")
	fmt.Fprintln(e.stdout, ui.WarningStyle.Render("2. Generative Upscale ")+"(Detailed, but ~20x more expensive)")

	idx, err := p.Choose("Enter your choice", 2)
	if err != nil {
		return "", err
	}
	if idx == 0 {
		return domain.ModeClarity, nil
	}

	ok, err := p.Confirm(ui.Error("\nGenerative Upscale costs ~20x more. Are you sure you want to proceed?"))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrAborted
	}
	return domain.ModeGenerative, nil
}
