package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DefaultRetentionCap bounds how many entries a tenant keeps per
	// document. Oldest entries beyond the cap are evicted after each write.
	DefaultRetentionCap int `json:"defaultRetentionCap" yaml:"defaultRetentionCap"`
	// TenantRetention overrides the cap per tenant slug.
	TenantRetention map[string]int `json:"tenantRetention" yaml:"tenantRetention"`
	// QueryPageSize is the fixed page size for entry queries.
	QueryPageSize int `json:"queryPageSize" yaml:"queryPageSize"`
	// MaxMessageBytes rejects oversized entry messages. Zero disables the cap.
	MaxMessageBytes int `json:"maxMessageBytes" yaml:"maxMessageBytes"`
	// DefaultSeverity is assigned to entries written without one.
	DefaultSeverity int `json:"defaultSeverity" yaml:"defaultSeverity"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DefaultRetentionCap: 20,
		QueryPageSize:       20,
		MaxMessageBytes:     64 << 10, // 64 KiB
		DefaultSeverity:     1,
	}
}

// RetentionCapFor returns the configured cap for a tenant slug, falling back
// to the default cap.
func (c Config) RetentionCapFor(tenantSlug string) int {
	if cap, ok := c.TenantRetention[tenantSlug]; ok && cap > 0 {
		return cap
	}
	return c.DefaultRetentionCap
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
