package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mmcdole/recraft/internal/auth"
	"github.com/mmcdole/recraft/internal/config"
	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/download"
	"github.com/mmcdole/recraft/internal/logging"
	"github.com/mmcdole/recraft/internal/prompt"
	"github.com/mmcdole/recraft/internal/recraft"
	"github.com/mmcdole/recraft/internal/service"
	"github.com/mmcdole/recraft/internal/store"
	"github.com/mmcdole/recraft/internal/ui"
)

// app wires the collaborators a command needs
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	prompter *prompt.Prompter
	tokens   *auth.Ensurer
	client   *recraft.Client
	images   *service.ImageService

	closers []io.Closer
}

// loadConfig loads configuration and reports failures on stderr
func loadConfig(e *env) (*config.Config, bool) {
	cfg, err := config.Load(e.configDir)
	if err != nil {
		fmt.Fprintln(e.stderr, ui.Error("Error: failed to load config: "+err.Error()))
		return nil, false
	}
	return cfg, true
}

func newApp(cfg *config.Config, e *env) (*app, error) {
	a := &app{cfg: cfg}

	logger, logFile, err := logging.Setup(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	} else {
		a.closers = append(a.closers, logFile)
	}
	slog.SetDefault(logger)
	a.logger = logger

	secrets, err := store.Open(cfg.Store.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open secret store: %w", err)
	}
	a.closers = append(a.closers, secrets)

	a.prompter = prompt.New(e.stdin, e.stdout)
	a.tokens = auth.NewEnsurer(auth.Options{
		Override: cfg.API.Token,
		Store:    secrets,
		Prompter: a.prompter,
		Out:      e.stdout,
		Logger:   logger,
	})

	a.client = recraft.New(recraft.Options{
		BaseURL: cfg.API.BaseURL,
		Endpoints: recraft.Endpoints{
			Generate:          cfg.Endpoints.Generate,
			RemoveBackground:  cfg.Endpoints.RemoveBackground,
			Vectorize:         cfg.Endpoints.Vectorize,
			ClarityUpscale:    cfg.Endpoints.ClarityUpscale,
			GenerativeUpscale: cfg.Endpoints.GenerativeUpscale,
		},
		Tokens:   a.tokens,
		Display:  e.stdout,
		Interval: cfg.Progress.Interval,
		Logger:   logger,
	})

	dl := download.New(download.Options{Display: e.stdout, Logger: logger})
	a.images = service.NewImageService(a.client, dl, e.stdout, logger)

	logger.Info("starting recraft", "version", Version)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// commonFlags are shared by every image command
type commonFlags struct {
	timeout    *int
	noDownload *bool
	outputDir  *string
}

func addCommonFlags(fs *flag.FlagSet, cfg *config.Config) commonFlags {
	return commonFlags{
		timeout:    fs.Int("timeout", int(cfg.API.Timeout/time.Second), "Timeout for the API request in seconds"),
		noDownload: fs.Bool("no-download", false, "Skip automatic image download"),
		outputDir:  fs.String("output-dir", cfg.Output.Dir, "Directory or bucket URL to save the downloaded image"),
	}
}

func (c commonFlags) request(format domain.ResponseFormat) service.Request {
	return service.Request{
		Timeout:        time.Duration(*c.timeout) * time.Second,
		ResponseFormat: format,
		Download:       !*c.noDownload,
		OutputDir:      *c.outputDir,
	}
}

// parseArgs parses flags that may appear before, after or between
// positional arguments and returns the positional ones.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if i := len(args) - len(rest) - 1; i >= 0 && args[i] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// parseExit maps a flag parsing error to an exit code
func parseExit(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	return ExitInvalidArgs
}

// requireFile reports whether path names a readable regular file
func requireFile(e *env, path string) bool {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return false
	case info.IsDir():
		fmt.Fprintf(e.stderr, "Error: %s is a directory\n", path)
		return false
	}
	return true
}

// fail renders err the way the user sees it and returns the exit code.
// prefix labels failures outside the API error taxonomy.
func fail(e *env, prefix string, err error) int {
	var (
		validation *domain.ValidationError
		status     *domain.HTTPStatusError
		transport  *domain.TransportError
		unexpected *domain.UnexpectedError
	)
	switch {
	case errors.Is(err, domain.ErrAborted):
		fmt.Fprintln(e.stdout, ui.Error("Aborted!"))
	case errors.As(err, &validation), errors.As(err, &status),
		errors.As(err, &transport), errors.As(err, &unexpected):
		fmt.Fprintln(e.stdout, ui.Error(domain.Describe(err)))
	default:
		fmt.Fprintln(e.stdout, ui.Error(fmt.Sprintf("✗ %s: %v", prefix, err)))
	}
	return ExitFailure
}

// finish maps a service outcome to an exit code
func finish(o *service.Outcome) int {
	if o.DownloadErr != nil {
		return ExitFailure
	}
	return ExitSuccess
}

func banner(e *env, title string) {
	fmt.Fprintln(e.stdout)
	fmt.Fprintln(e.stdout, ui.TitleStyle.Render(title))
	fmt.Fprintln(e.stdout, ui.DimStyle.Render(strings.Repeat("━", len(title))))
}
