package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every ydmenu environment variable
const EnvPrefix = "YDMENU_"

// UserFileNames are looked up in the configuration directory, in order
var UserFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Options controls Load
type Options struct {
	// File is an explicit configuration file. It must exist.
	File string
	// Dir replaces the configuration directory searched for UserFileNames
	Dir string
	// Overrides are applied last, keyed by dotted path ("disk.root")
	Overrides map[string]interface{}
}

// Load merges every configuration source and returns the validated result
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	var loaded []string
	userFile, err := findUserFile(opts)
	if err != nil {
		return nil, err
	}
	if userFile != "" {
		if err := k.Load(file.Provider(userFile), parserFor(userFile)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", userFile).
				WithDetail("file", userFile)
		}
		loaded = append(loaded, userFile)
	}

	// 3. Environment
	if err := k.Load(env.Provider(paths.EnvDiskRoot, ".", func(s string) string {
		if s == paths.EnvDiskRoot {
			return "disk.root"
		}
		return ""
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load "+paths.EnvDiskRoot)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Files = loaded
	cfg.raw = k.Raw()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps YDMENU_READINESS_MAX_ATTEMPTS to readiness.max_attempts.
// Only the first underscore separates the section from the key.
func envKey(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if name == "config" || name == "config_dir" {
		return ""
	}
	section, key, ok := strings.Cut(name, "_")
	if !ok || key == "" {
		return ""
	}
	if section == "notify" && strings.HasPrefix(key, "icons_") {
		return "notify.icons." + strings.TrimPrefix(key, "icons_")
	}
	return section + "." + key
}

func findUserFile(opts Options) (string, error) {
	if opts.File != "" {
		path, err := paths.Expand(opts.File)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot expand %s", opts.File)
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
				WithDetail("file", path)
		}
		return path, nil
	}

	dir := opts.Dir
	if dir == "" {
		if env := os.Getenv(EnvPrefix + "CONFIG"); env != "" {
			return findUserFile(Options{File: env})
		}
		dir = paths.ConfigDir()
	}
	for _, name := range UserFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
