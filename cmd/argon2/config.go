package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-argon2"
)

// profile holds the derivation parameters and logging options. It can be
// loaded from a YAML file and overridden by flags.
type profile struct {
	Variant string `yaml:"variant"`
	Version uint32 `yaml:"version"`
	Time    uint32 `yaml:"time"`
	Memory  uint32 `yaml:"memory"`
	Lanes   uint32 `yaml:"lanes"`
	Threads int    `yaml:"threads"`
	Length  uint32 `yaml:"length"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func defaultProfile() profile {
	c := argon2.DefaultConfig()
	p := profile{
		Variant: c.Variant.String(),
		Version: uint32(c.Version),
		Time:    c.Time,
		Memory:  c.Memory,
		Lanes:   c.Lanes,
		Length:  c.KeyLen,
	}
	p.Log.Level = "warn"
	return p
}

// parseYamlProfile decodes the file at path into p. Unknown keys are an error.
func parseYamlProfile(path string, p *profile) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(p); err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}
	return nil
}

// profileFlags binds the parameter flags shared by subcommands.
type profileFlags struct {
	fs     *pflag.FlagSet
	values profile
	config string
	logLvl string
}

func newProfileFlags(fs *pflag.FlagSet) *profileFlags {
	pf := &profileFlags{fs: fs, values: defaultProfile()}
	fs.StringVar(&pf.values.Variant, "variant", pf.values.Variant, "algorithm variant: argon2d, argon2i or argon2id")
	fs.Uint32Var(&pf.values.Version, "version", pf.values.Version, "algorithm version: 16 or 19")
	fs.Uint32VarP(&pf.values.Time, "time", "t", pf.values.Time, "number of passes")
	fs.Uint32VarP(&pf.values.Memory, "memory", "m", pf.values.Memory, "memory in KiB")
	fs.Uint32VarP(&pf.values.Lanes, "lanes", "p", pf.values.Lanes, "degree of parallelism")
	fs.IntVar(&pf.values.Threads, "threads", pf.values.Threads, "worker goroutines (0 = min(lanes, GOMAXPROCS))")
	fs.Uint32VarP(&pf.values.Length, "length", "l", pf.values.Length, "output length in bytes")
	fs.StringVar(&pf.config, "config", "", "YAML profile with default parameters")
	fs.StringVar(&pf.logLvl, "log.level", pf.values.Log.Level, "log level: debug, info, warn or error")
	return pf
}

// resolve applies defaults, then the YAML profile, then explicitly set flags.
func (pf *profileFlags) resolve() (profile, error) {
	p := defaultProfile()
	if pf.config != "" {
		if err := parseYamlProfile(pf.config, &p); err != nil {
			return profile{}, err
		}
	}

	pf.fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "variant":
			p.Variant = pf.values.Variant
		case "version":
			p.Version = pf.values.Version
		case "time":
			p.Time = pf.values.Time
		case "memory":
			p.Memory = pf.values.Memory
		case "lanes":
			p.Lanes = pf.values.Lanes
		case "threads":
			p.Threads = pf.values.Threads
		case "length":
			p.Length = pf.values.Length
		case "log.level":
			p.Log.Level = pf.logLvl
		}
	})
	return p, nil
}

// Config converts the profile to a validated library configuration.
func (p profile) Config() (argon2.Config, error) {
	if p.Variant == "" {
		return argon2.Config{}, errors.New("variant is required")
	}
	variant, err := argon2.ParseVariant(p.Variant)
	if err != nil {
		return argon2.Config{}, err
	}

	c := argon2.Config{
		Variant: variant,
		Version: argon2.Version(p.Version),
		Time:    p.Time,
		Memory:  p.Memory,
		Lanes:   p.Lanes,
		Threads: p.Threads,
		KeyLen:  p.Length,
	}
	return c, c.Validate()
}
