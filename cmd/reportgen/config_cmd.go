package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportgen/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML:
// the file given by --config or REPORTGEN_CONFIG, with environment overrides.
func runConfigCmd(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig()
	if !flags.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	cfg, err := loadConfig(flags.config, envCfg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
