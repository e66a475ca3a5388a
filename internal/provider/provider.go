// Package provider wraps the generative-text APIs behind one interface.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider turns a prompt into generated text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Provider for a specific API key.
type Factory func(ctx context.Context, apiKey string) (Provider, error)

// Kind names a supported provider backend.
type Kind string

const (
	KindGemini    Kind = "gemini"
	KindAnthropic Kind = "anthropic"
	KindOpenAI    Kind = "openai"
)

// AllKinds returns every supported backend.
func AllKinds() []Kind {
	return []Kind{KindGemini, KindAnthropic, KindOpenAI}
}

// ParseKind validates a backend name.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range AllKinds() {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q: must be gemini, anthropic or openai", name)
}

// DisplayName returns the label used in user-facing messages.
func (k Kind) DisplayName() string {
	switch k {
	case KindGemini:
		return "Gemini"
	case KindAnthropic:
		return "Anthropic"
	case KindOpenAI:
		return "OpenAI"
	default:
		return string(k)
	}
}

var (
	// ErrMissingAPIKey is returned when a provider is built without credentials.
	ErrMissingAPIKey = errors.New("API key required")
	// ErrEmptyResult is returned when the provider answered without any text.
	ErrEmptyResult = errors.New("AI 응답이 비어있습니다")
)

// Error reports a failed call to a provider API.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s API 오류: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func apiError(provider string, err error) *Error {
	msg := err.Error()
	if msg == "" {
		msg = "알 수 없는 오류"
	}
	return &Error{Provider: provider, Message: msg, Err: err}
}

// New creates a provider of the given kind. An empty model selects the
// backend default.
func New(ctx context.Context, kind Kind, apiKey, model string) (Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s: %w", kind.DisplayName(), ErrMissingAPIKey)
	}

	switch kind {
	case KindGemini:
		return NewGemini(ctx, apiKey, model)
	case KindAnthropic:
		return NewAnthropic(apiKey, model), nil
	case KindOpenAI:
		return NewOpenAI(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", kind)
	}
}

// NewFactory returns a Factory producing providers of one kind and model.
func NewFactory(kind Kind, model string) Factory {
	return func(ctx context.Context, apiKey string) (Provider, error) {
		return New(ctx, kind, apiKey, model)
	}
}
