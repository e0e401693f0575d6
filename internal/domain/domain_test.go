package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpscaleMode(t *testing.T) {
	tests := []struct {
		input  string
		want   UpscaleMode
		wantOp Operation
		suffix string
	}{
		{"clarity", ModeClarity, OpClarityUpscale, "-upscaled"},
		{"generative", ModeGenerative, OpGenerativeUpscale, "-upscaled-generative"},
	}

	for _, tt := range tests {
		mode, err := ParseUpscaleMode(tt.input)
		require.NoError(t, err, "ParseUpscaleMode(%q)", tt.input)
		assert.Equal(t, tt.want, mode)
		assert.Equal(t, tt.wantOp, mode.Operation())
		assert.Equal(t, tt.suffix, mode.FileSuffix())
	}
}

func TestParseUpscaleModeInvalid(t *testing.T) {
	for _, input := range []string{"", "Clarity", "creative"} {
		_, err := ParseUpscaleMode(input)
		assert.ErrorIs(t, err, ErrInvalidMode, "ParseUpscaleMode(%q)", input)
	}
}

func TestParseResponseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ResponseFormat
		wantErr bool
	}{
		{"", FormatDefault, false},
		{"url", FormatURL, false},
		{"BASE64", FormatBase64, false},
		{"png", "", true},
	}

	for _, tt := range tests {
		got, err := ParseResponseFormat(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidResponseFormat, "ParseResponseFormat(%q)", tt.input)
			continue
		}
		if assert.NoError(t, err, "ParseResponseFormat(%q)", tt.input) {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestStyleSetValidate(t *testing.T) {
	styles := DefaultStyles()

	assert.NoError(t, styles.Validate("vector_illustration_kawaii"))

	err := styles.Validate("realistc_image")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "style", verr.Field)
	assert.Equal(t, "realistc_image", verr.Value)
	require.NotEmpty(t, verr.Suggestions)
	assert.Equal(t, "realistic_image", verr.Suggestions[0])
	assert.LessOrEqual(t, len(verr.Suggestions), maxSuggestions)
}

func TestStyleSetCategories(t *testing.T) {
	cats := DefaultStyles().Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, []string{"any"}, cats[0].Styles, "first category should only hold 'any'")

	prefixes := []string{"realistic_image", "digital_illustration", "vector_illustration"}
	for i, prefix := range prefixes {
		cat := cats[i+1]
		assert.NotEmpty(t, cat.Styles, "category %q is empty", cat.Name)
		for _, s := range cat.Styles {
			assert.Regexp(t, "^"+prefix, s, "category %q", cat.Name)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&HTTPStatusError{StatusCode: 401, Body: "unauthorized"}, "HTTP error occurred: 401 - unauthorized"},
		{&TransportError{Err: errors.New("dial tcp: refused")}, "Request error occurred: dial tcp: refused"},
		{&UnexpectedError{Err: errors.New("bad json")}, "Unexpected error occurred: bad json"},
		{&ValidationError{Field: "style", Value: "x"}, "Error: Invalid style 'x'."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err))
	}
}

func TestResultInlineImage(t *testing.T) {
	upload := InlinePayload(map[string]any{"image": map[string]any{"b64_json": "aGk="}})
	data, ok := upload.InlineImage()
	assert.True(t, ok, "upload payload")
	assert.Equal(t, "aGk=", data)

	gen := InlinePayload(map[string]any{"data": []any{map[string]any{"b64_json": "eW8="}}})
	data, ok = gen.InlineImage()
	assert.True(t, ok, "generation payload")
	assert.Equal(t, "eW8=", data)

	_, ok = URLResult("https://x/y.png").InlineImage()
	assert.False(t, ok, "URL result should not report inline image")
}
