// Package keyring stores provider API keys in the system keychain.
package keyring

import (
	"fmt"

	"github.com/alkime/xivix/internal/provider"
	"github.com/zalando/go-keyring"
)

const serviceName = "xivix"

// APIKey represents a named API key stored in the keychain.
type APIKey string

const (
	// Gemini is the keychain entry for the Gemini API key.
	Gemini APIKey = "gemini-api-key"
	// Anthropic is the keychain entry for the Anthropic API key.
	Anthropic APIKey = "anthropic-api-key"
	// OpenAI is the keychain entry for the OpenAI API key.
	OpenAI APIKey = "openai-api-key"
)

// AllAPIKeys returns all known API key types for iteration.
func AllAPIKeys() []APIKey {
	return []APIKey{Gemini, Anthropic, OpenAI}
}

// ForProvider returns the keychain entry holding kind's credential.
func ForProvider(kind provider.Kind) APIKey {
	switch kind {
	case provider.KindAnthropic:
		return Anthropic
	case provider.KindOpenAI:
		return OpenAI
	default:
		return Gemini
	}
}

// DisplayName returns the provider name the key belongs to.
func (k APIKey) DisplayName() string {
	switch k {
	case Gemini:
		return string(provider.KindGemini)
	case Anthropic:
		return string(provider.KindAnthropic)
	case OpenAI:
		return string(provider.KindOpenAI)
	default:
		return string(k)
	}
}

// Get retrieves an API key value from the system keychain.
func Get(apiKey APIKey) (string, error) {
	value, err := keyring.Get(serviceName, string(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to get %s from keychain: %w", apiKey.DisplayName(), err)
	}

	return value, nil
}

// Set stores an API key value in the system keychain.
func Set(apiKey APIKey, value string) error {
	if err := keyring.Set(serviceName, string(apiKey), value); err != nil {
		return fmt.Errorf("failed to set %s in keychain: %w", apiKey.DisplayName(), err)
	}

	return nil
}

// IsSet checks if an API key exists in the keychain.
func IsSet(apiKey APIKey) bool {
	_, err := keyring.Get(serviceName, string(apiKey))

	return err == nil
}

// APIKeyFromServiceName maps a provider name (e.g., "gemini") to an APIKey.
func APIKeyFromServiceName(name string) (APIKey, error) {
	kind, err := provider.ParseKind(name)
	if err != nil {
		return "", fmt.Errorf("unknown service: %s", name)
	}

	return ForProvider(kind), nil
}
