package configs

import (
	_ "embed"
)

// ConfigFile is the default config, written out by --init
//
//go:embed config.yaml
var ConfigFile string
