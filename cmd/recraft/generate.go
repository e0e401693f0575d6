package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/prompt"
	"github.com/mmcdole/recraft/internal/ui"
)

const describePrompt = "Enter a description for the image you want to generate"

// runGenerate creates an image from a text description. A missing
// description or style is asked for interactively.
func runGenerate(args []string, e *env) int {
	cfg, ok := loadConfig(e)
	if !ok {
		return ExitFailure
	}

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	style := fs.String("style", "", "Style of the generated image")
	common := addCommonFlags(fs, cfg)
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, `Usage: recraft generate [PROMPT] [options]

Generate an image using the Recraft API.

Options:`)
		fs.PrintDefaults()
	}

	positional, err := parseArgs(fs, args)
	if err != nil {
		return parseExit(err)
	}

	a, err := newApp(cfg, e)
	if err != nil {
		fmt.Fprintln(e.stderr, ui.Error("Error: "+err.Error()))
		return ExitFailure
	}
	defer a.Close()

	banner(e, "Image Generation")

	description := strings.TrimSpace(strings.Join(positional, " "))
	if description == "" {
		if description, err = a.prompter.Line(describePrompt); err != nil {
			return fail(e, "Image generation failed", err)
		}
	}

	if *style == "" {
		if *style, err = chooseStyle(e, a.prompter, a.client.Styles()); err != nil {
			return fail(e, "Image generation failed", err)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := a.images.Generate(ctx, description, *style, common.request(domain.FormatDefault))
	if err != nil {
		return fail(e, "Image generation failed", err)
	}
	return finish(outcome)
}

// chooseStyle offers the fuzzy picker on a terminal and the numbered
// category menu otherwise.
func chooseStyle(e *env, p *prompt.Prompter, styles domain.StyleSet) (string, error) {
	if p.Interactive() {
		return p.Pick("Choose a style", styles.All())
	}

	categories := styles.Categories()

	fmt.Fprintln(e.stdout, "\nChoose a style category:")
	for i, c := range categories {
		fmt.Fprintf(e.stdout, "%d. %s\n", i+1, c.Name)
	}
	idx, err := p.Choose("Enter the number of the style category", len(categories))
	if err != nil {
		return "", err
	}

	category := categories[idx]
	if len(category.Styles) == 1 {
		return category.Styles[0], nil
	}

	fmt.Fprintln(e.stdout, ui.Success(fmt.Sprintf("\nAvailable %s Styles:", category.Name)))
	for i, s := range category.Styles {
		fmt.Fprintf(e.stdout, "%d. %s\n", i+1, s)
	}
	idx, err = p.Choose("Enter the number of the specific style", len(category.Styles))
	if err != nil {
		return "", err
	}
	return category.Styles[idx], nil
}
