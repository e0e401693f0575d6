package domain

// ResultKind tags which variant of Result is populated
type ResultKind int

const (
	ResultURL ResultKind = iota
	ResultInline
)

// Result is the outcome of a successful remote operation: either a URL
// pointing at the produced image or the raw response payload when the
// image is returned inline (base64).
type Result struct {
	Kind    ResultKind
	URL     string
	Payload map[string]any
}

// URLResult wraps a result URL
func URLResult(url string) *Result {
	return &Result{Kind: ResultURL, URL: url}
}

// InlinePayload wraps a raw response structure
func InlinePayload(payload map[string]any) *Result {
	return &Result{Kind: ResultInline, Payload: payload}
}

// IsURL reports whether the result carries a downloadable URL
func (r *Result) IsURL() bool {
	return r != nil && r.Kind == ResultURL && r.URL != ""
}

// InlineImage returns the base64 image data carried by an inline payload.
// Both the upload shape {"image":{"b64_json":...}} and the generation shape
// {"data":[{"b64_json":...}]} are recognized.
func (r *Result) InlineImage() (string, bool) {
	if r == nil || r.Kind != ResultInline {
		return "", false
	}
	if img, ok := r.Payload["image"].(map[string]any); ok {
		if s, ok := img["b64_json"].(string); ok && s != "" {
			return s, true
		}
	}
	if data, ok := r.Payload["data"].([]any); ok && len(data) > 0 {
		if first, ok := data[0].(map[string]any); ok {
			if s, ok := first["b64_json"].(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
