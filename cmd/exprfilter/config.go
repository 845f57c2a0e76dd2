// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/exprfilter/exprfilter/ferr"
)

// checkConfig holds the fully-resolved configuration for the check
// subcommand, layered from an optional YAML config file and overridden
// by whatever flags the caller actually set.
type checkConfig struct {
	SchemaFile string `koanf:"schema"`
	RecordFile string `koanf:"record"`
	Expr       string `koanf:"expr"`
}

// loadCheckConfig layers cmd's flags over the file at configPath (if
// any exists), giving explicit flags the final word. This mirrors the
// source codebase's layered config stack: file values first, flags
// override.
func loadCheckConfig(cmd *cobra.Command, configPath string) (*checkConfig, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if loadErr := k.Load(file.Provider(configPath), yaml.Parser()); loadErr != nil {
				return nil, ferr.Wrap(ferr.KindOther, loadErr, "loading config file %q", configPath)
			}
		}
	}

	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return nil, ferr.Wrap(ferr.KindOther, err, "layering flags over config")
	}

	var cfg checkConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, ferr.Wrap(ferr.KindOther, err, "unmarshaling config")
	}
	return &cfg, nil
}
