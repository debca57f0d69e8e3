// Package main is the zeroproxy command-line entry point. It uses the
// cobra package for flag parsing, in the style of this project's other
// CLI tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agildata/zeroproxy/conf"
	"github.com/agildata/zeroproxy/logger"
	"github.com/agildata/zeroproxy/proxy"
)

const version = "0.1.0"

func main() {
	var configPath string
	var logConfigPath string
	var showVersion bool

	root := &cobra.Command{
		Use:   "zeroproxy",
		Short: "Transparent column-encrypting MySQL proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version)
				return nil
			}
			return run(configPath, logConfigPath)
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&configPath, "config", "C", "./zero-config.toml", "path to the TOML configuration file")
	root.Flags().StringVarP(&logConfigPath, "logconfig", "L", "", "path to the TOML logging configuration file")
	root.Flags().BoolVarP(&showVersion, "version", "V", false, "print the version and exit")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, logConfigPath string) error {
	// -L/--logconfig is accepted for compatibility with operator
	// tooling that always passes it; this proxy only has one logging
	// concern (level + two file paths) so it is folded into the main
	// TOML config's [log] table rather than a second file.
	_ = logConfigPath

	cfg, err := conf.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(cfg.Log.Logger()); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	p, err := proxy.New(cfg)
	if err != nil {
		return fmt.Errorf("starting proxy: %w", err)
	}
	defer p.Close()

	return p.Run()
}
