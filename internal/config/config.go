package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/tarungka/mapsources"
	"github.com/tarungka/mapsources/internal/models"
)

// Config is the configuration of the mapsources command
type Config struct {
	Debug   bool      `koanf:"debug"`
	Metrics bool      `koanf:"metrics"`
	Map     MapConfig `koanf:"map"`
}

// MapConfig describes how each source path is rewritten. The steps run in
// the order strip prefix, join base, add prefix.
type MapConfig struct {
	Prefix      string `koanf:"prefix"`
	StripPrefix string `koanf:"strip_prefix"`
	JoinBase    bool   `koanf:"join_base"`
}

// NewFlagSet returns the flags understood by Load.
func NewFlagSet(name string, output io.Writer) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(output)

	f.StringSlice("config", nil, "path to one or more config files (will be merged in order)")
	f.Bool("debug", false, "human readable trace logging")
	f.Bool("metrics", false, "write the rewriter metrics in Prometheus text format to stderr on exit")
	f.String("map.prefix", "", "string prepended to every source path")
	f.String("map.strip_prefix", "", "prefix removed from every source path")
	f.Bool("map.join_base", false, "join every source path onto the base of its file")
	return f
}

// Load parses args, merges the config files they name and lets explicitly
// set flags override the files.
func Load(f *flag.FlagSet, args []string) (*Config, error) {
	if err := f.Parse(args); err != nil {
		return nil, fmt.Errorf("error loading flags: %w", err)
	}

	ko := koanf.New(".")
	configs, _ := f.GetStringSlice("config")
	for _, path := range configs {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		log.Debug().Msgf("Reading config from %s", path)
		if err := ko.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	if err := ko.Load(posflag.Provider(f, ".", ko), nil); err != nil {
		return nil, fmt.Errorf("error reading flag config: %w", err)
	}

	var cfg Config
	if err := ko.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error un-marshaling config: %w", err)
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch path[strings.LastIndex(path, ".")+1:] {
	case "yaml", "yml":
		return yaml.Parser(), nil
	case "json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", path)
	}
}

// MapFunc builds the map function described by c. It returns nil when no
// rule is set, leaving the rewriter on identity.
func (c MapConfig) MapFunc() mapsources.MapFunc {
	if c.Prefix == "" && c.StripPrefix == "" && !c.JoinBase {
		return nil
	}
	return func(sourcePath string, f *models.File) (string, error) {
		p := strings.TrimPrefix(sourcePath, c.StripPrefix)
		if c.JoinBase {
			if f.Base == "" {
				return "", fmt.Errorf("file %s has no base to join", f.Path)
			}
			p = strings.TrimRight(f.Base, `/\`) + "/" + strings.TrimLeft(p, `/\`)
		}
		return c.Prefix + p, nil
	}
}
