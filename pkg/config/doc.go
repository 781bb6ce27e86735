// Package config loads the server settings.
//
// Values are layered: built-in defaults, then $AIACT_CONFIG_PATH/aiact.yml
// (default /etc/aiact/config/aiact.yml), then AIACT_* environment
// variables. The source of every attribute is kept so that
// "compliancectl configuration show" can report it.
//
// Secrets are never read from the file. DATABASE_URL, AIACT_DATA_KEY,
// AIACT_JWT_SECRET and the provider *_API_KEYS variables are read by the
// packages that use them.
package config
