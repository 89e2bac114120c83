// Package config resolves this system's environment-variable surface into
// a Config ready to hand to cache.NewStore/worker.NewPool. The YAML
// system/user config file merge named alongside these variables is an
// external collaborator out of scope here (see Load);
// this package only owns the environment side of that schema.
package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/octobuild/octobuild/cache"
	"github.com/octobuild/octobuild/utils"
	"github.com/octobuild/octobuild/worker"
)

// Config is the resolved process-wide configuration: where the cache
// lives, how big it's allowed to grow, how many toolchain processes may
// run concurrently, whether long command lines get spilled to a response
// file, and whether the cache serves/accepts entries at all.
type Config struct {
	CacheDir         utils.Directory
	CacheLimitMB     int64
	ProcessLimit     int
	UseResponseFiles bool
	CacheMode        cache.ModeType
}

const (
	envCache            = "OCTOBUILD_CACHE"
	envCacheLimitMB     = "OCTOBUILD_CACHE_LIMIT_MB"
	envUseResponseFiles = "OCTOBUILD_USE_RESPONSE_FILES"
	envCacheMode        = "OCTOBUILD_CACHE_MODE"
)

// defaultCacheLimitMB matches cache.DefaultLimitBytes (64 GiB).
const defaultCacheLimitMB = cache.DefaultLimitBytes >> 20

// Load resolves Config from the process environment, falling back to
// this system's own defaults for anything unset. A per-platform system
// or user config file providing the same schema (per the README) is
// merged ahead of this call by that external loader; env vars always win
// over whatever it supplies, so Load itself never needs to read one.
func Load() Config {
	return LoadFrom(os.LookupEnv)
}

// LookupEnvFunc matches os.LookupEnv's signature; tests supply a fake
// instead of mutating the real process environment.
type LookupEnvFunc func(key string) (string, bool)

// LoadFrom is Load with an injectable environment lookup, following this
// codebase's convention of swapping out the actual external effect
// (here, env vars; elsewhere, process spawning) for tests.
func LoadFrom(lookup LookupEnvFunc) Config {
	cfg := Config{
		CacheDir:         defaultCacheDir(),
		CacheLimitMB:     defaultCacheLimitMB,
		ProcessLimit:     worker.DefaultLimit(),
		UseResponseFiles: runtime.GOOS == "windows",
		CacheMode:        cache.ModeReadWrite,
	}

	if v, ok := lookup(envCache); ok && v != "" {
		cfg.CacheDir = utils.MakeDirectory(v)
	}
	if v, ok := lookup(envCacheLimitMB); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.CacheLimitMB = n
		}
	}
	if v, ok := lookup(envUseResponseFiles); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseResponseFiles = b
		}
	}
	if v, ok := lookup(envCacheMode); ok {
		if mode, err := cache.ParseModeType(v); err == nil {
			cfg.CacheMode = mode
		}
	}

	// OCTOBUILD_PROCESS_LIMIT is read by worker.DefaultLimit itself, so
	// that one env var is resolved there rather than duplicated here.

	return cfg
}

// NewStore builds the cache.Store this Config describes.
func (c Config) NewStore() *cache.Store {
	return cache.NewStore(c.CacheDir, c.CacheMode, c.CacheLimitMB<<20)
}

func defaultCacheDir() utils.Directory {
	return utils.UFS.Cache
}
