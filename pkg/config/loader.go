package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/etymograph/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "ETYMOGRAPH_"

// FileNames are the config files looked up in the working directory when no
// explicit path is given.
var FileNames = []string{"etymograph.yaml", "etymograph.yml", "etymograph.toml"}

// flagKeys maps flag names that do not follow the key naming.
var flagKeys = map[string]string{
	"store":      "store.backend",
	"store-path": "store.path",
	"mongo-uri":  "store.uri",
	"database":   "store.database",
	"cache":      "cache.backend",
	"cache-dir":  "cache.dir",
	"redis-addr": "cache.redis_addr",
	"addr":       "serve.addr",
}

// Load merges defaults, the config file at path (or the first of
// [FileNames] found in the working directory), ETYMOGRAPH_* variables and the
// flags in fs that were set explicitly. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load defaults")
	}

	if path == "" {
		path = findFile(".")
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load environment")
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, flagKey(fs)), nil); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns ETYMOGRAPH_CACHE__REDIS_ADDR into cache.redis_addr.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func flagKey(fs *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		if f.Name == "no-cache" {
			if v, _ := fs.GetBool("no-cache"); v {
				return "cache.backend", CacheNone
			}
			return "", nil
		}
		if key, ok := flagKeys[f.Name]; ok {
			return key, posflag.FlagVal(fs, f)
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}
}

func findFile(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlParser{}
	}
	return yaml.Parser()
}
