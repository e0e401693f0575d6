package main

import (
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Exit codes
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInvalidArgs = 2
)

// env is the process environment a command runs in
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// configDir overrides the config search directory
	configDir string
}

func main() {
	os.Exit(run(os.Args[1:], &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}))
}

func run(args []string, e *env) int {
	if len(args) == 0 {
		printUsage(e.stderr)
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "token":
		return runToken(cmdArgs, e)
	case "generate":
		return runGenerate(cmdArgs, e)
	case "upscale":
		return runUpscale(cmdArgs, e)
	case "remove-bg":
		return runRemoveBg(cmdArgs, e)
	case "vectorize":
		return runVectorize(cmdArgs, e)
	case "version", "-v", "--version":
		fmt.Fprintf(e.stdout, "recraft %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		printUsage(e.stdout)
		return ExitSuccess
	default:
		fmt.Fprintf(e.stderr, "Unknown command: %s\n", command)
		printUsage(e.stderr)
		return ExitInvalidArgs
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: recraft <command> [options]

Recraft CLI for image generation and processing.

Commands:
  token      Store the Recraft API token
  generate   Generate an image from a text description
  upscale    Upscale an image (clarity or generative)
  remove-bg  Remove the background from an image
  vectorize  Convert a raster image to SVG
  version    Print the version

Run 'recraft <command> -h' for command-specific help.

Exit status: 0 on success, 1 when an operation or its API call fails,
2 on invalid arguments.`)
}
