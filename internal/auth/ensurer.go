package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/ui"
)

// Secret store coordinates of the API token
const (
	ServiceName = "recraft-cli"
	TokenKey    = "api_token"

	tokenPrompt = "Enter your Recraft API token"
)

// SecretPrompter reads a value without echoing it
type SecretPrompter interface {
	Secret(label string) (string, error)
}

// Options configures an Ensurer
type Options struct {
	// Override is used instead of the stored token when non-empty
	// (config file or RECRAFT_API_TOKEN).
	Override string

	// Store persists the token (required).
	Store domain.SecretStore

	// Prompter asks for a missing token. Nil means a missing token is an error.
	Prompter SecretPrompter

	// Out receives user-facing messages.
	Out io.Writer

	Logger *slog.Logger
}

// Ensurer supplies the API token, asking the user for it once when none is stored
type Ensurer struct {
	override string
	store    domain.SecretStore
	prompter SecretPrompter
	out      io.Writer
	logger   *slog.Logger

	mu     sync.Mutex
	cached string
}

// NewEnsurer creates an Ensurer
func NewEnsurer(opts Options) *Ensurer {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Ensurer{
		override: strings.TrimSpace(opts.Override),
		store:    opts.Store,
		prompter: opts.Prompter,
		out:      opts.Out,
		logger:   opts.Logger,
	}
}

// Token returns the API token. Lookup order: override, secret store,
// interactive prompt. A prompted token is saved before it is returned.
func (e *Ensurer) Token(ctx context.Context) (string, error) {
	if e.override != "" {
		return e.override, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cached != "" {
		return e.cached, nil
	}

	token, err := e.store.Get(ServiceName, TokenKey)
	switch {
	case err == nil && token != "":
		e.cached = token
		return token, nil
	case err != nil && !errors.Is(err, domain.ErrSecretNotFound):
		e.logger.Warn("token lookup failed", "error", err)
	}

	if e.prompter == nil {
		return "", domain.ErrNoToken
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintln(e.out, ui.Warning("No API token found. Please set your Recraft API token."))
	token, err = e.prompter.Secret(tokenPrompt)
	if err != nil {
		return "", err
	}
	if err := e.save(token); err != nil {
		return "", err
	}
	fmt.Fprintln(e.out, ui.Success("Token has been securely stored."))

	e.cached = strings.TrimSpace(token)
	return e.cached, nil
}

// Save stores token for later runs
func (e *Ensurer) Save(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.save(token); err != nil {
		return err
	}
	e.cached = strings.TrimSpace(token)
	return nil
}

// Prompt asks for a token with hidden input and stores it
func (e *Ensurer) Prompt() error {
	if e.prompter == nil {
		return domain.ErrNoToken
	}
	token, err := e.prompter.Secret(tokenPrompt)
	if err != nil {
		return err
	}
	return e.Save(token)
}

func (e *Ensurer) save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrEmptyToken
	}
	if err := e.store.Set(ServiceName, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	e.logger.Info("api token stored")
	return nil
}
