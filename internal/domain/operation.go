package domain

import (
	"fmt"
	"strings"
)

// Operation identifies one remote image transformation
type Operation string

const (
	OpGenerate          Operation = "generate"
	OpRemoveBackground  Operation = "remove_background"
	OpVectorize         Operation = "vectorize"
	OpClarityUpscale    Operation = "clarity_upscale"
	OpGenerativeUpscale Operation = "generative_upscale"
)

// Label returns the text shown next to the progress bar
func (o Operation) Label() string {
	switch o {
	case OpGenerate:
		return "Generating Image"
	case OpRemoveBackground:
		return "Removing Background"
	case OpVectorize:
		return "Vectorizing Image"
	case OpClarityUpscale:
		return "Clarity Upscaling"
	case OpGenerativeUpscale:
		return "Generative Upscaling"
	default:
		return "Processing Image"
	}
}

// ResponseFormat selects how the API returns the produced image
type ResponseFormat string

const (
	FormatDefault ResponseFormat = ""
	FormatURL     ResponseFormat = "url"
	FormatBase64  ResponseFormat = "base64"
)

// ParseResponseFormat accepts "", "url" or "base64"
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch f := ResponseFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDefault, FormatURL, FormatBase64:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: url, base64)", ErrInvalidResponseFormat, s)
	}
}

// UpscaleMode selects one of the two upscaling strategies
type UpscaleMode string

const (
	ModeClarity    UpscaleMode = "clarity"
	ModeGenerative UpscaleMode = "generative"
)

// ParseUpscaleMode validates a mode string. Unknown modes return ErrInvalidMode.
func ParseUpscaleMode(s string) (UpscaleMode, error) {
	switch m := UpscaleMode(s); m {
	case ModeClarity, ModeGenerative:
		return m, nil
	default:
		return "", fmt.Errorf("%w (got %q)", ErrInvalidMode, s)
	}
}

// Operation maps the mode to its remote operation
func (m UpscaleMode) Operation() Operation {
	if m == ModeGenerative {
		return OpGenerativeUpscale
	}
	return OpClarityUpscale
}

// FileSuffix is appended to the input's base name for downloaded results
func (m UpscaleMode) FileSuffix() string {
	if m == ModeGenerative {
		return "-upscaled-generative"
	}
	return "-upscaled"
}
