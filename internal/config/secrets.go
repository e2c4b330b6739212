package config

import (
	"fmt"
	"os"
)

// SecretProvider supplies credentials to the AI clients at construction time.
type SecretProvider interface {
	Secret(name string) (string, error)
}

// EnvSecretProvider reads secrets from the process environment (after .env loading).
type EnvSecretProvider struct{}

func (EnvSecretProvider) Secret(name string) (string, error) {
	val := os.Getenv(name)
	if val == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return val, nil
}

// StaticSecretProvider serves secrets from a fixed map.
type StaticSecretProvider map[string]string

func (p StaticSecretProvider) Secret(name string) (string, error) {
	val, ok := p[name]
	if !ok || val == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return val, nil
}

// APIKeyName returns the secret name holding the key for the given provider.
func APIKeyName(provider string) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}
