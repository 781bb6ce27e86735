// Package providers calls the external AI providers used by the compliance
// assistant: DeepSeek, OpenAI, Gemini and Google Custom Search.
//
// A KeyManager holds every provider's keys, from the *_API_KEYS
// environment variables and from the api_keys table. ExecuteWithRetry
// runs a call with successive keys in round-robin order, deactivates keys
// the provider rejects (HTTP 401/403 or an "invalid key" message) and
// gives up after the configured number of attempts.
//
// A Chain tries providers in the configured fallback order, by default
// DeepSeek, then Gemini, then Google Search. When every provider fails the
// chain logs an EXTERNAL_SERVICE error and returns an empty Answer.
package providers
