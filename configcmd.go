package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/subscription-tracker/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type ConfigParams struct {
	GlobalParams
	Init bool `descr:"Write a config file with the default settings if none exists" optional:"true"`
}

func configCmd() boa.CmdT[ConfigParams] {
	return boa.CmdT[ConfigParams]{
		Use:   "config",
		Short: "Show the effective configuration",
		RunFunc: func(params *ConfigParams, _ *cobra.Command, _ []string) {
			path := params.Config
			if path == "" {
				path = internal.DefaultConfigPath()
			}

			if params.Init {
				if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
					fail(fmt.Errorf("config file already exists: %s", path))
				}
				if err := internal.NewDefaultConfig().Save(path); err != nil {
					fail(err)
				}
				fmt.Printf("Wrote %s\n", path)
				return
			}

			cfg := loadConfig(params.GlobalParams)
			if err := cfg.Validate(); err != nil {
				fail(err)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				fail(fmt.Errorf("marshaling config: %w", err))
			}
			fmt.Printf("# %s\n%s", path, data)
		},
	}
}
