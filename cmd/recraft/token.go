package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/mmcdole/recraft/internal/ui"
)

// runToken stores the API token given as an argument, or prompts for it
// with hidden input.
func runToken(args []string, e *env) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, `Usage: recraft token [TOKEN]

Store the Recraft API token. Without TOKEN you are prompted for it.`)
		fs.PrintDefaults()
	}

	positional, err := parseArgs(fs, args)
	if err != nil {
		return parseExit(err)
	}
	if len(positional) > 1 {
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg, ok := loadConfig(e)
	if !ok {
		return ExitFailure
	}
	a, err := newApp(cfg, e)
	if err != nil {
		fmt.Fprintln(e.stderr, ui.Error("Error: "+err.Error()))
		return ExitFailure
	}
	defer a.Close()

	if len(positional) == 1 {
		err = a.tokens.Save(strings.TrimSpace(positional[0]))
	} else {
		err = a.tokens.Prompt()
	}
	if err != nil {
		return fail(e, "Storing token failed", err)
	}

	fmt.Fprintln(e.stdout, ui.Success("API token has been securely stored."))
	return ExitSuccess
}
