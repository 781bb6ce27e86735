package model

import (
	"fmt"
	"strings"
)

// Provider names a third-party AI or search API.
type Provider string

const (
	ProviderDeepSeek     Provider = "deepseek"
	ProviderOpenAI       Provider = "openai"
	ProviderGemini       Provider = "gemini"
	ProviderGoogleSearch Provider = "google_search"
)

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderDeepSeek, ProviderOpenAI, ProviderGemini, ProviderGoogleSearch}
}

// ParseProvider accepts the canonical name plus a few common spellings.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deepseek", "deep_seek", "deep-seek":
		return ProviderDeepSeek, nil
	case "openai", "open_ai":
		return ProviderOpenAI, nil
	case "gemini", "google_gemini":
		return ProviderGemini, nil
	case "google_search", "google-search", "googlesearch", "google":
		return ProviderGoogleSearch, nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// EnvVar is the environment variable holding the provider's comma separated keys.
func (p Provider) EnvVar() string {
	return strings.ToUpper(string(p)) + "_API_KEYS"
}
