package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

const (
	DefaultConfigPath = "/etc/aiact/config"
	ConfigFileName    = "aiact.yml"
)

const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// Config holds the non-secret server settings.
type Config struct {
	// CORSOrigins lists the origins allowed to call the API from a browser
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	RateLimitRPS   int   `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int   `yaml:"rate_limit_burst" json:"rate_limit_burst"`
	MaxBodyBytes   int64 `yaml:"max_body_bytes" json:"max_body_bytes"`

	// TokenTTLMinutes is the lifetime of issued session tokens
	TokenTTLMinutes int `yaml:"token_ttl" json:"token_ttl"`

	ProviderMaxRetries     int      `yaml:"provider_max_retries" json:"provider_max_retries"`
	ProviderRetryDelayMS   int      `yaml:"provider_retry_delay_ms" json:"provider_retry_delay_ms"`
	ProviderTimeoutSeconds int      `yaml:"provider_timeout_seconds" json:"provider_timeout_seconds"`
	ProviderFallbackChain  []string `yaml:"provider_fallback_chain" json:"provider_fallback_chain"`

	APIKeyCheckSchedule        string `yaml:"api_key_check_schedule" json:"api_key_check_schedule"`
	ApprovalEscalationSchedule string `yaml:"approval_escalation_schedule" json:"approval_escalation_schedule"`
	ApprovalEscalationDays     int    `yaml:"approval_escalation_days" json:"approval_escalation_days"`
	AssessmentReviewMonths     int    `yaml:"assessment_review_months" json:"assessment_review_months"`

	DBMaxOpenConns int `yaml:"db_max_open_conns" json:"db_max_open_conns"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment. An invalid
// file leaves the current configuration in place.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// Set replaces the global configuration.
func Set(cfg *Config) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

func newDefault() *Config {
	return &Config{
		CORSOrigins:                []string{},
		RateLimitRPS:               20,
		RateLimitBurst:             40,
		MaxBodyBytes:               1 << 20,
		TokenTTLMinutes:            480,
		ProviderMaxRetries:         3,
		ProviderRetryDelayMS:       500,
		ProviderTimeoutSeconds:     30,
		ProviderFallbackChain:      []string{"deepseek", "gemini", "google_search"},
		APIKeyCheckSchedule:        "@every 6h",
		ApprovalEscalationSchedule: "@hourly",
		ApprovalEscalationDays:     7,
		AssessmentReviewMonths:     12,
		DBMaxOpenConns:             20,
		sources:                    make(map[string]string),
	}
}

// Default returns the built-in configuration with every source "default".
func Default() *Config {
	c := newDefault()
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// FilePath returns the config file location derived from AIACT_CONFIG_PATH.
func FilePath() string {
	configPath := os.Getenv("AIACT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := Default()
	config.configFilePath = FilePath()

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"cors_origins", "rate_limit_rps", "rate_limit_burst", "max_body_bytes",
		"token_ttl", "provider_max_retries", "provider_retry_delay_ms",
		"provider_timeout_seconds", "provider_fallback_chain",
		"api_key_check_schedule", "approval_escalation_schedule",
		"approval_escalation_days", "assessment_review_months",
		"db_max_open_conns",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	setStrings := func(name string, dst *[]string, v []string) {
		if len(v) > 0 {
			*dst = v
			c.sources[name] = SourceFile
		}
	}
	setInt := func(name string, dst *int, v int) {
		if v != 0 {
			*dst = v
			c.sources[name] = SourceFile
		}
	}
	setString := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = SourceFile
		}
	}

	setStrings("cors_origins", &c.CORSOrigins, file.CORSOrigins)
	setInt("rate_limit_rps", &c.RateLimitRPS, file.RateLimitRPS)
	setInt("rate_limit_burst", &c.RateLimitBurst, file.RateLimitBurst)
	if file.MaxBodyBytes != 0 {
		c.MaxBodyBytes = file.MaxBodyBytes
		c.sources["max_body_bytes"] = SourceFile
	}
	setInt("token_ttl", &c.TokenTTLMinutes, file.TokenTTLMinutes)
	setInt("provider_max_retries", &c.ProviderMaxRetries, file.ProviderMaxRetries)
	setInt("provider_retry_delay_ms", &c.ProviderRetryDelayMS, file.ProviderRetryDelayMS)
	setInt("provider_timeout_seconds", &c.ProviderTimeoutSeconds, file.ProviderTimeoutSeconds)
	setStrings("provider_fallback_chain", &c.ProviderFallbackChain, file.ProviderFallbackChain)
	setString("api_key_check_schedule", &c.APIKeyCheckSchedule, file.APIKeyCheckSchedule)
	setString("approval_escalation_schedule", &c.ApprovalEscalationSchedule, file.ApprovalEscalationSchedule)
	setInt("approval_escalation_days", &c.ApprovalEscalationDays, file.ApprovalEscalationDays)
	setInt("assessment_review_months", &c.AssessmentReviewMonths, file.AssessmentReviewMonths)
	setInt("db_max_open_conns", &c.DBMaxOpenConns, file.DBMaxOpenConns)
}

func (c *Config) applyEnvConfig() error {
	ints := []struct {
		name, env string
		dst       *int
	}{
		{"rate_limit_rps", "AIACT_RATE_LIMIT_RPS", &c.RateLimitRPS},
		{"rate_limit_burst", "AIACT_RATE_LIMIT_BURST", &c.RateLimitBurst},
		{"token_ttl", "AIACT_TOKEN_TTL", &c.TokenTTLMinutes},
		{"provider_max_retries", "AIACT_PROVIDER_MAX_RETRIES", &c.ProviderMaxRetries},
		{"provider_retry_delay_ms", "AIACT_PROVIDER_RETRY_DELAY_MS", &c.ProviderRetryDelayMS},
		{"provider_timeout_seconds", "AIACT_PROVIDER_TIMEOUT_SECONDS", &c.ProviderTimeoutSeconds},
		{"approval_escalation_days", "AIACT_APPROVAL_ESCALATION_DAYS", &c.ApprovalEscalationDays},
		{"assessment_review_months", "AIACT_ASSESSMENT_REVIEW_MONTHS", &c.AssessmentReviewMonths},
		{"db_max_open_conns", "AIACT_DB_MAX_OPEN_CONNS", &c.DBMaxOpenConns},
	}
	for _, a := range ints {
		val := os.Getenv(a.env)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", a.env, val, err)
		}
		*a.dst = i
		c.sources[a.name] = SourceEnvironment
	}

	if val := os.Getenv("AIACT_MAX_BODY_BYTES"); val != "" {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid AIACT_MAX_BODY_BYTES value %q: %w", val, err)
		}
		c.MaxBodyBytes = i
		c.sources["max_body_bytes"] = SourceEnvironment
	}
	if val := os.Getenv("AIACT_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = splitAndTrim(val)
		c.sources["cors_origins"] = SourceEnvironment
	}
	if val := os.Getenv("AIACT_PROVIDER_FALLBACK_CHAIN"); val != "" {
		c.ProviderFallbackChain = splitAndTrim(val)
		c.sources["provider_fallback_chain"] = SourceEnvironment
	}
	if val := os.Getenv("AIACT_API_KEY_CHECK_SCHEDULE"); val != "" {
		c.APIKeyCheckSchedule = val
		c.sources["api_key_check_schedule"] = SourceEnvironment
	}
	if val := os.Getenv("AIACT_APPROVAL_ESCALATION_SCHEDULE"); val != "" {
		c.ApprovalEscalationSchedule = val
		c.sources["approval_escalation_schedule"] = SourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// TokenTTL returns the session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c *Config) ProviderRetryDelay() time.Duration {
	return time.Duration(c.ProviderRetryDelayMS) * time.Millisecond
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// FallbackChain returns the parsed provider chain without duplicates.
// Unknown names are dropped; Validate reports them.
func (c *Config) FallbackChain() []model.Provider {
	seen := make(map[model.Provider]bool)
	chain := make([]model.Provider, 0, len(c.ProviderFallbackChain))
	for _, name := range c.ProviderFallbackChain {
		p, err := model.ParseProvider(name)
		if err != nil || seen[p] {
			continue
		}
		seen[p] = true
		chain = append(chain, p)
	}
	return chain
}

// IsAllowedOrigin reports whether origin may call the API cross-site.
func (c *Config) IsAllowedOrigin(origin string) bool {
	for _, o := range c.CORSOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, name := range c.ProviderFallbackChain {
		if _, err := model.ParseProvider(name); err != nil {
			return fmt.Errorf("invalid provider_fallback_chain entry: %s", name)
		}
	}

	positives := map[string]int{
		"rate_limit_rps":           c.RateLimitRPS,
		"rate_limit_burst":         c.RateLimitBurst,
		"token_ttl":                c.TokenTTLMinutes,
		"provider_max_retries":     c.ProviderMaxRetries,
		"provider_timeout_seconds": c.ProviderTimeoutSeconds,
		"approval_escalation_days": c.ApprovalEscalationDays,
		"assessment_review_months": c.AssessmentReviewMonths,
		"db_max_open_conns":        c.DBMaxOpenConns,
	}
	for _, name := range attributeNames() {
		if v, ok := positives[name]; ok && v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.ProviderRetryDelayMS < 0 {
		return fmt.Errorf("provider_retry_delay_ms must not be negative, got %d", c.ProviderRetryDelayMS)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}

	for name, spec := range map[string]string{
		"api_key_check_schedule":       c.APIKeyCheckSchedule,
		"approval_escalation_schedule": c.ApprovalEscalationSchedule,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	values := map[string]string{
		"cors_origins":                 strings.Join(c.CORSOrigins, ","),
		"rate_limit_rps":               strconv.Itoa(c.RateLimitRPS),
		"rate_limit_burst":             strconv.Itoa(c.RateLimitBurst),
		"max_body_bytes":               strconv.FormatInt(c.MaxBodyBytes, 10),
		"token_ttl":                    strconv.Itoa(c.TokenTTLMinutes),
		"provider_max_retries":         strconv.Itoa(c.ProviderMaxRetries),
		"provider_retry_delay_ms":      strconv.Itoa(c.ProviderRetryDelayMS),
		"provider_timeout_seconds":     strconv.Itoa(c.ProviderTimeoutSeconds),
		"provider_fallback_chain":      strings.Join(c.ProviderFallbackChain, ","),
		"api_key_check_schedule":       c.APIKeyCheckSchedule,
		"approval_escalation_schedule": c.ApprovalEscalationSchedule,
		"approval_escalation_days":     strconv.Itoa(c.ApprovalEscalationDays),
		"assessment_review_months":     strconv.Itoa(c.AssessmentReviewMonths),
		"db_max_open_conns":            strconv.Itoa(c.DBMaxOpenConns),
	}

	attrs := make([]Attribute, 0, len(values))
	for _, name := range attributeNames() {
		attrs = append(attrs, Attribute{Name: name, Value: values[name], Source: c.Source(name)})
	}
	return attrs
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-32s %-32s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-32s %-32s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-32s %-32s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
