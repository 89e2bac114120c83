package config

import (
	"testing"

	"github.com/octobuild/octobuild/cache"
)

func fakeEnv(values map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadFrom_DefaultsWhenUnset(t *testing.T) {
	cfg := LoadFrom(fakeEnv(nil))
	if cfg.CacheLimitMB != defaultCacheLimitMB {
		t.Errorf("CacheLimitMB = %d, want default %d", cfg.CacheLimitMB, defaultCacheLimitMB)
	}
	if cfg.CacheMode != cache.ModeReadWrite {
		t.Errorf("CacheMode = %v, want ModeReadWrite", cfg.CacheMode)
	}
	if cfg.ProcessLimit <= 0 {
		t.Errorf("ProcessLimit = %d, want > 0", cfg.ProcessLimit)
	}
}

func TestLoadFrom_EnvOverridesDefaults(t *testing.T) {
	cfg := LoadFrom(fakeEnv(map[string]string{
		envCache:            "/tmp/my-cache",
		envCacheLimitMB:     "1024",
		envUseResponseFiles: "true",
		envCacheMode:        "ReadOnly",
	}))

	if cfg.CacheDir.String() != "/tmp/my-cache" {
		t.Errorf("CacheDir = %q, want /tmp/my-cache", cfg.CacheDir.String())
	}
	if cfg.CacheLimitMB != 1024 {
		t.Errorf("CacheLimitMB = %d, want 1024", cfg.CacheLimitMB)
	}
	if !cfg.UseResponseFiles {
		t.Errorf("UseResponseFiles = false, want true")
	}
	if cfg.CacheMode != cache.ModeReadOnly {
		t.Errorf("CacheMode = %v, want ModeReadOnly", cfg.CacheMode)
	}
}

func TestLoadFrom_InvalidValuesFallBackToDefaults(t *testing.T) {
	cfg := LoadFrom(fakeEnv(map[string]string{
		envCacheLimitMB:     "not-a-number",
		envUseResponseFiles: "not-a-bool",
		envCacheMode:        "Bogus",
	}))

	if cfg.CacheLimitMB != defaultCacheLimitMB {
		t.Errorf("CacheLimitMB = %d, want default %d on invalid input", cfg.CacheLimitMB, defaultCacheLimitMB)
	}
	if cfg.CacheMode != cache.ModeReadWrite {
		t.Errorf("CacheMode = %v, want default ModeReadWrite on invalid input", cfg.CacheMode)
	}
}
