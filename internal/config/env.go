package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays PLUGLOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("PLUGLOG_DEFAULT_RETENTION_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultRetentionCap = n
		}
	}
	if v := os.Getenv("PLUGLOG_QUERY_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.QueryPageSize = n
		}
	}
	if v := os.Getenv("PLUGLOG_MAX_MESSAGE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxMessageBytes = n
		}
	}
	if v := os.Getenv("PLUGLOG_DEFAULT_SEVERITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultSeverity = n
		}
	}
	// PLUGLOG_TENANT_RETENTION is a comma list of tenant=cap pairs, e.g.
	// "my-plugin=50,noisy-plugin=5".
	if v := os.Getenv("PLUGLOG_TENANT_RETENTION"); v != "" {
		overrides := map[string]int{}
		for _, pair := range strings.Split(v, ",") {
			pair = strings.TrimSpace(pair)
			name, capStr, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSpace(capStr)); err == nil && n > 0 {
				overrides[strings.TrimSpace(name)] = n
			}
		}
		if len(overrides) > 0 {
			cfg.TenantRetention = overrides
		}
	}
}
