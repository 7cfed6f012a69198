// Package config provides loading and environment overlay for pluglog
// configuration: retention caps, query page size, and message limits.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/pluglog.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{DataDir: config.DefaultDataDir(), Config: cfg})
//	defer rt.Close()
package config
